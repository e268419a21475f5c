package contract

import (
	"context"

	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/scan"
)

type IItemRepository interface {
	FindAll(ctx context.Context, specs ...specification.RecordSpecification) ([]scan.Item, error)
	FindByID(ctx context.Context, id string) (*scan.Item, error)
	// UpdateFields writes at most airtable.MaxRecordsPerUpdate records.
	UpdateFields(ctx context.Context, updates []airtable.RecordUpdate) error
}
