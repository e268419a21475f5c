package implementation

import (
	"context"

	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/scan"
)

type itemRepositoryImpl struct {
	store contract.IRecordStore
}

func NewItemRepository(store contract.IRecordStore) contract.IItemRepository {
	return &itemRepositoryImpl{store: store}
}

func (r *itemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.RecordSpecification) ([]scan.Item, error) {
	records, err := r.store.FindRecordsByFilter(ctx, constant.TableItem, specification.Combine(specs...))
	if err != nil {
		return nil, err
	}
	items := make([]scan.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, r.mapToItem(rec))
	}
	return items, nil
}

func (r *itemRepositoryImpl) FindByID(ctx context.Context, id string) (*scan.Item, error) {
	rec, err := r.store.FindRecordByID(ctx, constant.TableItem, id)
	if err != nil {
		return nil, err
	}
	item := r.mapToItem(*rec)
	return &item, nil
}

func (r *itemRepositoryImpl) UpdateFields(ctx context.Context, updates []airtable.RecordUpdate) error {
	return r.store.UpdateFields(ctx, constant.TableItem, updates)
}

func (r *itemRepositoryImpl) mapToItem(rec airtable.Record) scan.Item {
	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return scan.Item{ID: rec.ID, Fields: fields}
}
