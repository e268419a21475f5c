package airtable

import (
	"encoding/json"
	"time"
)

// Record is a single row. Field values are whatever the API returned:
// strings, numbers, bools, objects or arrays.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// RecordUpdate sets Fields on the record with ID. A nil field value clears it.
type RecordUpdate struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listEnvelope struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type updateEnvelope struct {
	Records  []RecordUpdate `json:"records"`
	Typecast bool           `json:"typecast,omitempty"`
}

// errorEnvelope covers both shapes the API uses:
// {"error":"NOT_FOUND"} and {"error":{"type":"...","message":"..."}}.
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
