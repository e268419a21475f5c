package contract

import (
	"context"

	"warehouse-scan-be/pkg/airtable"
)

// IRecordStore is the backing-store surface the repositories need.
// *airtable.Client satisfies it.
type IRecordStore interface {
	FindRecordsByFilter(ctx context.Context, table string, formula airtable.Formula) ([]airtable.Record, error)
	FindRecordByID(ctx context.Context, table, id string) (*airtable.Record, error)
	UpdateFields(ctx context.Context, table string, updates []airtable.RecordUpdate) error
}
