package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIKey:         "key123",
		BaseID:         "appBase",
		EndpointURL:    srv.URL,
		View:           DefaultView,
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{APIKey: "", BaseID: "app"})
	assert.Error(t, err)
	_, err = New(Config{APIKey: "k", BaseID: " "})
	assert.Error(t, err)
}

func TestFindRecordsByFilterPaginates(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v0/appBase/Item", r.URL.Path)
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Equal(t, "{Operation ID} = 'OP-1'", r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "Grid view", r.URL.Query().Get("view"))

		switch r.URL.Query().Get("offset") {
		case "":
			fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{"Barcode":"100"}}],"offset":"page2"}`)
		case "page2":
			fmt.Fprint(w, `{"records":[{"id":"rec2","fields":{"Barcode":{"text":"200"}}}]}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	records, err := c.FindRecordsByFilter(context.Background(), "Item", Eq("Operation ID", "OP-1"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, map[string]any{"text": "200"}, records[1].Fields["Barcode"])
}

func TestFindRecordByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/appBase/Customer/recC1":
			fmt.Fprint(w, `{"id":"recC1","createdTime":"2024-03-01T10:00:00.000Z","fields":{"Customer ID":"CUST-9","Name":"Acme"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"NOT_FOUND"}`)
		}
	})

	rec, err := c.FindRecordByID(context.Background(), "Customer", "recC1")
	require.NoError(t, err)
	assert.Equal(t, "CUST-9", rec.Fields["Customer ID"])
	assert.Equal(t, 2024, rec.CreatedTime.Year())

	_, err = c.FindRecordByID(context.Background(), "Customer", "recMissing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFields(t *testing.T) {
	var got updateEnvelope
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		fmt.Fprint(w, `{"records":[]}`)
	})

	err := c.UpdateFields(context.Background(), "Item", []RecordUpdate{
		{ID: "rec1", Fields: map[string]any{"Pallet": "PAL1", "Status": "Stored"}},
		{ID: "rec2", Fields: map[string]any{"Pallet": nil, "Status": "In Transit - Outgoing"}},
	})
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "PAL1", got.Records[0].Fields["Pallet"])
	v, present := got.Records[1].Fields["Pallet"]
	assert.True(t, present, "nil values must be sent to clear the field")
	assert.Nil(t, v)
}

func TestUpdateFieldsRejectsLargeBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	updates := make([]RecordUpdate, MaxRecordsPerUpdate+1)
	assert.ErrorIs(t, c.UpdateFields(context.Background(), "Item", updates), ErrBatchTooLarge)
	assert.NoError(t, c.UpdateFields(context.Background(), "Item", nil))
}

func TestAPIErrorParsing(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType string
		wantMsg  string
	}{
		{
			name:     "object error",
			status:   http.StatusUnprocessableEntity,
			body:     `{"error":{"type":"ROW_DOES_NOT_EXIST","message":"Record ID recX does not exist"}}`,
			wantType: "ROW_DOES_NOT_EXIST",
			wantMsg:  "Record ID recX does not exist",
		},
		{
			name:     "string error",
			status:   http.StatusForbidden,
			body:     `{"error":"NOT_AUTHORIZED"}`,
			wantType: "NOT_AUTHORIZED",
		},
		{
			name:     "non json body",
			status:   http.StatusBadGateway,
			body:     "upstream\n  down",
			wantType: "Bad Gateway",
			wantMsg:  "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			err := c.UpdateFields(context.Background(), "Item", []RecordUpdate{{ID: "recX"}})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "err = %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestUpdateFieldsRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"recA"`, "body is resent on retry")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"errors":[{"error":"RATE_LIMIT_REACHED"}]}`)
			return
		}
		fmt.Fprint(w, `{"records":[]}`)
	})

	err := c.UpdateFields(context.Background(), "Item", []RecordUpdate{{ID: "recA", Fields: map[string]any{"Status": "Stored"}}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryLimits(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{name: "persistent rate limit gives up", status: http.StatusTooManyRequests, wantCalls: 3},
		{name: "validation error is not retried", status: http.StatusUnprocessableEntity, wantCalls: 1},
		{name: "server error is not retried", status: http.StatusBadGateway, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			})

			err := c.UpdateFields(context.Background(), "Item", []RecordUpdate{{ID: "recA"}})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "err = %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.UpdateFields(ctx, "Item", []RecordUpdate{{ID: "recA"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFormula(t *testing.T) {
	tests := []struct {
		name string
		got  Formula
		want Formula
	}{
		{name: "eq", got: Eq("Status", "On The Way"), want: "{Status} = 'On The Way'"},
		{name: "escapes quotes", got: Eq("Name", "O'Brien"), want: `{Name} = 'O\'Brien'`},
		{name: "and", got: And(Eq("A", "1"), Eq("B", "2")), want: "AND({A} = '1', {B} = '2')"},
		{name: "and single", got: And("", Eq("A", "1")), want: "{A} = '1'"},
		{name: "or empty", got: Or(), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("formula = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
