package implementation

import (
	"context"

	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/scan"
)

type operationRepositoryImpl struct {
	store contract.IRecordStore
}

func NewOperationRepository(store contract.IRecordStore) contract.IOperationRepository {
	return &operationRepositoryImpl{store: store}
}

func (r *operationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.RecordSpecification) ([]*entity.Operation, error) {
	records, err := r.store.FindRecordsByFilter(ctx, constant.TableOperation, specification.Combine(specs...))
	if err != nil {
		return nil, err
	}
	ops := make([]*entity.Operation, 0, len(records))
	for _, rec := range records {
		ops = append(ops, r.mapToEntity(rec))
	}
	return ops, nil
}

func (r *operationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.RecordSpecification) (*entity.Operation, error) {
	ops, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, nil
	}
	return ops[0], nil
}

func (r *operationRepositoryImpl) FindByRecordID(ctx context.Context, recordID string) (*entity.Operation, error) {
	rec, err := r.store.FindRecordByID(ctx, constant.TableOperation, recordID)
	if err != nil {
		return nil, err
	}
	return r.mapToEntity(*rec), nil
}

func (r *operationRepositoryImpl) UpdateStatus(ctx context.Context, recordID, status string) error {
	return r.store.UpdateFields(ctx, constant.TableOperation, []airtable.RecordUpdate{
		{ID: recordID, Fields: map[string]any{constant.FieldStatus: status}},
	})
}

func (r *operationRepositoryImpl) mapToEntity(rec airtable.Record) *entity.Operation {
	return &entity.Operation{
		RecordID:          rec.ID,
		OperationID:       scan.ResolveFieldValue(rec.Fields[constant.FieldOperationID]).Value,
		Status:            scan.ResolveFieldValue(rec.Fields[constant.FieldStatus]).Value,
		CustomerRecordIDs: linkedIDs(rec.Fields[constant.FieldCustomerID]),
		Fields:            rec.Fields,
	}
}

// linkedIDs reads a linked-record field, which the API returns as a list of
// record ids.
func linkedIDs(v any) []string {
	switch t := v.(type) {
	case []any:
		ids := make([]string, 0, len(t))
		for _, e := range t {
			if s := scan.ResolveFieldValue(e); !s.IsEmpty() {
				ids = append(ids, s.Value)
			}
		}
		return ids
	case []string:
		return t
	case string:
		if t != "" {
			return []string{t}
		}
	}
	return nil
}
