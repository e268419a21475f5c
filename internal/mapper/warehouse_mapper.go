package mapper

import (
	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/pkg/scan"
)

// WarehouseMapper renders store records and session state for the API. The
// classifier decides which field is shown as an item's barcode, so display
// and matching agree.
type WarehouseMapper struct {
	classifier *scan.Classifier
}

func NewWarehouseMapper(classifier *scan.Classifier) *WarehouseMapper {
	return &WarehouseMapper{classifier: classifier}
}

func (m *WarehouseMapper) Item(item scan.Item) dto.ItemResponse {
	barcode := m.classifier.Barcode(item)
	return dto.ItemResponse{
		Id:          item.ID,
		Barcode:     barcode.Value,
		BarcodeKind: barcode.Kind.String(),
		Name:        scan.ResolveFieldValue(item.Fields[constant.FieldName]).Value,
		Status:      scan.ResolveFieldValue(item.Fields[constant.FieldStatus]).Value,
		Fields:      item.Fields,
	}
}

func (m *WarehouseMapper) Items(items []scan.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, m.Item(item))
	}
	return out
}

func (m *WarehouseMapper) Operation(op *entity.Operation) dto.OperationResponse {
	ids := op.CustomerRecordIDs
	if ids == nil {
		ids = []string{}
	}
	return dto.OperationResponse{
		Id:                op.RecordID,
		OperationId:       op.OperationID,
		Status:            op.Status,
		CustomerRecordIds: ids,
	}
}

func (m *WarehouseMapper) Operations(ops []*entity.Operation) []dto.OperationResponse {
	out := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, m.Operation(op))
	}
	return out
}

func (m *WarehouseMapper) Customer(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{Id: c.RecordID, CustomerId: c.CustomerID, Name: c.Name}
}

// LogEntries converts a submission request into session log entries.
func (m *WarehouseMapper) LogEntries(req []dto.LogEntryRequest) []scan.LogEntry {
	out := make([]scan.LogEntry, 0, len(req))
	for _, l := range req {
		entry := scan.LogEntry{Items: make([]scan.Item, 0, len(l.Items))}
		if l.Pallet != nil {
			entry.Pallet = &scan.Pallet{ID: l.Pallet.Id}
		}
		for _, it := range l.Items {
			entry.Items = append(entry.Items, scan.Item{ID: it.Id, Fields: it.Fields})
		}
		out = append(out, entry)
	}
	return out
}

func (m *WarehouseMapper) Session(s scan.Snapshot) dto.ScanSessionResponse {
	selected := make(map[string]bool, len(s.Selected))
	for _, item := range s.Selected {
		selected[item.ID] = true
	}
	logged := make(map[string]bool, len(s.LoggedItemIDs))
	for _, id := range s.LoggedItemIDs {
		logged[id] = true
	}

	items := make([]dto.SessionItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SessionItemResponse{
			ItemResponse: m.Item(item),
			Selected:     selected[item.ID],
			Logged:       logged[item.ID],
		})
	}

	logs := make([]dto.LogEntryResponse, 0, len(s.Logs))
	for _, l := range s.Logs {
		logs = append(logs, dto.LogEntryResponse{
			LogId:     l.ID,
			Pallet:    pallet(l.Pallet),
			Items:     m.Items(l.Items),
			CreatedAt: l.CreatedAt,
		})
	}

	return dto.ScanSessionResponse{
		Id:            s.ID,
		Direction:     string(s.Scope.Direction),
		OperationId:   s.Scope.OperationID,
		CustomerId:    s.Scope.CustomerID,
		State:         string(s.State),
		SelectionMode: string(s.Mode),
		Pallet:        pallet(s.Pallet),
		Items:         items,
		Selected:      m.Items(s.Selected),
		Logs:          logs,
		Submitting:    s.Submitting,
		PendingKeys:   s.PendingKeys,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *WarehouseMapper) Scan(c scan.Classification, err error) dto.ScanResultResponse {
	res := dto.ScanResultResponse{Kind: c.Kind.String(), Token: c.Token}
	if c.Item != nil {
		res.ItemId = c.Item.ID
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func (m *WarehouseMapper) Audit(a *entity.SubmissionAudit) dto.SubmissionAuditResponse {
	ids := a.ItemIDs
	if ids == nil {
		ids = []string{}
	}
	return dto.SubmissionAuditResponse{
		Id:            a.Id,
		SessionId:     a.SessionID,
		Direction:     a.Direction,
		OperationId:   a.OperationID,
		CustomerId:    a.CustomerID,
		Status:        a.Status,
		LogCount:      a.LogCount,
		ItemCount:     a.ItemCount,
		AppliedChunks: a.AppliedChunks,
		TotalChunks:   a.TotalChunks,
		ItemIds:       ids,
		Error:         a.Error,
		CreatedAt:     a.CreatedAt,
	}
}

func pallet(p *scan.Pallet) *dto.PalletResponse {
	if p == nil {
		return nil
	}
	return &dto.PalletResponse{Id: p.ID}
}
