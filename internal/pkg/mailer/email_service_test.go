package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertSubject(t *testing.T) {
	assert.Equal(t, "[Warehouse] Partial incoming submission for OP-7",
		alertSubject(ReconciliationAlert{Direction: "incoming", OperationID: "OP-7"}))
	assert.Equal(t, "[Warehouse] Partial outgoing submission for customer C-1",
		alertSubject(ReconciliationAlert{Direction: "outgoing", CustomerID: "C-1"}))
}

func TestAlertBody(t *testing.T) {
	body := alertBody(ReconciliationAlert{
		AppliedChunks:  1,
		TotalChunks:    3,
		AppliedItemIDs: []string{"rec1", "rec2"},
		Reason:         `airtable: 422 <INVALID_VALUE>`,
	})

	assert.Contains(t, body, "1 of 3 batches")
	assert.Contains(t, body, "rec1, rec2")
	assert.Contains(t, body, "<b>Not updated:</b> none")
	assert.Contains(t, body, "&lt;INVALID_VALUE&gt;")
	assert.NotContains(t, body, "<INVALID_VALUE>")
}
