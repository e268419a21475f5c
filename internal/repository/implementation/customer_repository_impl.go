package implementation

import (
	"context"

	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/scan"
)

type customerRepositoryImpl struct {
	store contract.IRecordStore
}

func NewCustomerRepository(store contract.IRecordStore) contract.ICustomerRepository {
	return &customerRepositoryImpl{store: store}
}

func (r *customerRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Customer, error) {
	records, err := r.store.FindRecordsByFilter(ctx, constant.TableCustomer, "")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Customer, 0, len(records))
	for _, rec := range records {
		out = append(out, r.mapToEntity(rec))
	}
	return out, nil
}

func (r *customerRepositoryImpl) FindByRecordID(ctx context.Context, recordID string) (*entity.Customer, error) {
	rec, err := r.store.FindRecordByID(ctx, constant.TableCustomer, recordID)
	if err != nil {
		return nil, err
	}
	return r.mapToEntity(*rec), nil
}

func (r *customerRepositoryImpl) mapToEntity(rec airtable.Record) *entity.Customer {
	return &entity.Customer{
		RecordID:   rec.ID,
		CustomerID: scan.ResolveFieldValue(rec.Fields[constant.FieldCustomerID]).Value,
		Name:       scan.ResolveFieldValue(rec.Fields[constant.FieldName]).Value,
	}
}
