package service

import (
	"context"
	"fmt"
	"sync"

	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/mapper"
	"warehouse-scan-be/internal/pkg/mailer"
	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/movement"
	"warehouse-scan-be/pkg/scan"
)

type fakeItemRepo struct {
	mu       sync.Mutex
	items    []scan.Item
	findErr  error
	failCall int // 1-based UpdateFields call that fails; 0 never fails
	calls    [][]airtable.RecordUpdate
	specs    [][]specification.RecordSpecification
}

func (f *fakeItemRepo) FindAll(_ context.Context, specs ...specification.RecordSpecification) ([]scan.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.specs = append(f.specs, specs)
	if f.findErr != nil {
		return nil, f.findErr
	}
	return append([]scan.Item(nil), f.items...), nil
}

func (f *fakeItemRepo) FindByID(_ context.Context, id string) (*scan.Item, error) {
	for _, item := range f.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, airtable.ErrNotFound)
}

func (f *fakeItemRepo) UpdateFields(_ context.Context, updates []airtable.RecordUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(updates) > airtable.MaxRecordsPerUpdate {
		return airtable.ErrBatchTooLarge
	}
	f.calls = append(f.calls, updates)
	if f.failCall == len(f.calls) {
		return &airtable.APIError{StatusCode: 422, Type: "INVALID_RECORDS", Message: "bad record"}
	}
	return nil
}

type fakeOperationRepo struct {
	ops          []*entity.Operation
	statusWrites []string
	statusErr    error
	// items, when set, lets tests check how many chunk writes preceded the
	// status write.
	items             *fakeItemRepo
	itemCallsAtStatus int
}

func (f *fakeOperationRepo) FindAll(_ context.Context, specs ...specification.RecordSpecification) ([]*entity.Operation, error) {
	return f.ops, nil
}

func (f *fakeOperationRepo) FindOne(_ context.Context, specs ...specification.RecordSpecification) (*entity.Operation, error) {
	want := specification.Combine(specs...)
	for _, op := range f.ops {
		if specification.Combine(specification.ByOperationID{OperationID: op.OperationID}) == want {
			return op, nil
		}
	}
	return nil, nil
}

func (f *fakeOperationRepo) FindByRecordID(_ context.Context, recordID string) (*entity.Operation, error) {
	for _, op := range f.ops {
		if op.RecordID == recordID {
			return op, nil
		}
	}
	return nil, airtable.ErrNotFound
}

func (f *fakeOperationRepo) UpdateStatus(_ context.Context, recordID, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusWrites = append(f.statusWrites, recordID+"="+status)
	if f.items != nil {
		f.itemCallsAtStatus = len(f.items.calls)
	}
	return nil
}

type fakeCustomerRepo struct {
	customers []*entity.Customer
}

func (f *fakeCustomerRepo) FindAll(context.Context) ([]*entity.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomerRepo) FindByRecordID(_ context.Context, recordID string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.RecordID == recordID {
			return c, nil
		}
	}
	return nil, airtable.ErrNotFound
}

type fakeMovement struct {
	mu        sync.Mutex
	succeeded []movement.Submission
	failed    []movement.Submission
	statuses  []string
}

func (f *fakeMovement) PublishSubmissionSucceeded(_ context.Context, s movement.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.succeeded = append(f.succeeded, s)
}

func (f *fakeMovement) PublishSubmissionFailed(_ context.Context, s movement.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, s)
}

func (f *fakeMovement) PublishItemStatusUpdated(_ context.Context, itemID, from, to string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, itemID+":"+from+"->"+to)
}

type fakeAlerts struct {
	alerts []mailer.ReconciliationAlert
}

func (f *fakeAlerts) PublishReconciliationAlert(alert mailer.ReconciliationAlert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}

type fakeInventory struct {
	IInventoryService
	items       []scan.Item
	err         error
	invalidated int
}

func (f *fakeInventory) ScopeItems(context.Context, scan.Scope) ([]scan.Item, error) {
	return f.items, f.err
}

func (f *fakeInventory) InvalidateOperations() {
	f.invalidated++
}

func barcodeItems(n int) []scan.Item {
	items := make([]scan.Item, n)
	for i := range items {
		items[i] = scan.Item{
			ID:     fmt.Sprintf("rec%d", i+1),
			Fields: map[string]any{"Barcode": fmt.Sprintf("B%d", i+1), "Status": "On The Way"},
		}
	}
	return items
}

func testMapper() *mapper.WarehouseMapper {
	return mapper.NewWarehouseMapper(scan.NewClassifier(nil, scan.Framing{}))
}
