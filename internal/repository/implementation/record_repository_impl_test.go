package implementation

import (
	"context"
	"testing"

	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/airtable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records  map[string][]airtable.Record
	formulas []airtable.Formula
	updates  map[string][][]airtable.RecordUpdate
}

func (f *fakeStore) FindRecordsByFilter(_ context.Context, table string, formula airtable.Formula) ([]airtable.Record, error) {
	f.formulas = append(f.formulas, formula)
	return f.records[table], nil
}

func (f *fakeStore) FindRecordByID(_ context.Context, table, id string) (*airtable.Record, error) {
	for _, r := range f.records[table] {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, airtable.ErrNotFound
}

func (f *fakeStore) UpdateFields(_ context.Context, table string, updates []airtable.RecordUpdate) error {
	if f.updates == nil {
		f.updates = map[string][][]airtable.RecordUpdate{}
	}
	f.updates[table] = append(f.updates[table], updates)
	return nil
}

func TestOperationRepository(t *testing.T) {
	store := &fakeStore{records: map[string][]airtable.Record{
		"Operation": {{
			ID: "recOp1",
			Fields: map[string]any{
				"Operation ID": float64(1042),
				"Status":       "On The Way",
				"Customer ID":  []any{"recCust1"},
			},
		}},
	}}
	repo := NewOperationRepository(store)

	op, err := repo.FindOne(context.Background(), specification.ByOperationID{OperationID: "1042"})
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, "1042", op.OperationID)
	assert.Equal(t, []string{"recCust1"}, op.CustomerRecordIDs)
	assert.Equal(t, airtable.Formula("{Operation ID} = '1042'"), store.formulas[0])

	require.NoError(t, repo.UpdateStatus(context.Background(), "recOp1", "Stored"))
	assert.Equal(t, "Stored", store.updates["Operation"][0][0].Fields["Status"])

	store.records["Operation"] = nil
	op, err = repo.FindOne(context.Background(), specification.ByOperationID{OperationID: "404"})
	require.NoError(t, err)
	assert.Nil(t, op)
}

func TestCustomerRepository(t *testing.T) {
	store := &fakeStore{records: map[string][]airtable.Record{
		"Customer": {{ID: "recC", Fields: map[string]any{"Customer ID": "CUST-1", "Name": "Acme"}}},
	}}
	repo := NewCustomerRepository(store)

	c, err := repo.FindByRecordID(context.Background(), "recC")
	require.NoError(t, err)
	assert.Equal(t, "CUST-1", c.CustomerID)
	assert.Equal(t, "Acme", c.Name)

	_, err = repo.FindByRecordID(context.Background(), "recNope")
	assert.ErrorIs(t, err, airtable.ErrNotFound)
}

func TestItemRepository(t *testing.T) {
	store := &fakeStore{records: map[string][]airtable.Record{
		"Item": {{ID: "rec1"}, {ID: "rec2", Fields: map[string]any{"Barcode": "200"}}},
	}}
	repo := NewItemRepository(store)

	items, err := repo.FindAll(context.Background(),
		specification.ByCustomerID{CustomerID: "C1"},
		specification.ByStatus{Status: "Stored"},
	)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotNil(t, items[0].Fields, "missing fields become an empty map")
	assert.Equal(t, airtable.Formula("AND({Customer ID} = 'C1', {Status} = 'Stored')"), store.formulas[0])
}
