package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"warehouse-scan-be/internal/bootstrap"
	"warehouse-scan-be/internal/config"
	"warehouse-scan-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore answers the record API for one base: a single incoming
// operation OP-1 with itemCount items on the way.
type fakeStore struct {
	mu        sync.Mutex
	itemCount int
	patches   map[string][]int // table -> record count per PATCH
	opStatus  string
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := strings.TrimPrefix(r.URL.Path, "/v0/appTEST/")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		var records []map[string]any
		switch table {
		case "Item":
			for i := 1; i <= f.itemCount; i++ {
				records = append(records, map[string]any{
					"id": fmt.Sprintf("rec%d", i),
					"fields": map[string]any{
						"Barcode":      fmt.Sprintf("B%d", i),
						"Status":       "On The Way",
						"Operation ID": "OP-1",
					},
				})
			}
		case "Operation":
			records = append(records, map[string]any{
				"id":     "recOP1",
				"fields": map[string]any{"Operation ID": "OP-1", "Status": f.opStatus},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"records": records})

	case http.MethodPatch:
		var body struct {
			Records []struct {
				ID     string         `json:"id"`
				Fields map[string]any `json:"fields"`
			} `json:"records"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		f.patches[table] = append(f.patches[table], len(body.Records))
		if table == "Operation" {
			f.opStatus, _ = body.Records[0].Fields["Status"].(string)
		}
		_, _ = w.Write([]byte(`{"records":[]}`))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func setupApp(t *testing.T, store *fakeStore) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			ScannerLogPath:     filepath.Join(dir, "scanner.log"),
			CorsAllowedOrigins: "*",
		},
		Airtable: config.AirtableConfig{
			APIKey:      "key",
			BaseID:      "appTEST",
			EndpointURL: srv.URL,
			Timeout:     5 * time.Second,
		},
		Scan: config.ScanConfig{
			KeyGap:          100 * time.Millisecond,
			TerminatorKey:   "Enter",
			SelectionMode:   "toggle",
			SessionTTL:      time.Hour,
			OperationsCache: time.Minute,
		},
		Alert: config.AlertConfig{Topic: "RECONCILIATION_ALERT"},
	}
	require.NoError(t, cfg.Validate())

	container := bootstrap.NewContainer(nil, cfg)
	t.Cleanup(container.Close)
	return server.New(cfg, container).GetApp()
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestIncomingScanFlow(t *testing.T) {
	store := &fakeStore{itemCount: 12, patches: map[string][]int{}, opStatus: "On The Way"}
	app := setupApp(t, store)

	status, body := call(t, app, "POST", "/api/scan/sessions", `{"direction":"incoming","operation_id":"OP-1"}`)
	require.Equal(t, 201, status, body)
	session := body["data"].(map[string]any)
	sessionID := session["id"].(string)
	assert.Len(t, session["items"], 12)

	status, body = call(t, app, "POST", "/api/scan/sessions/"+sessionID+"/barcodes", `{"barcode":"PAL-9"}`)
	require.Equal(t, 200, status, body)
	assert.Equal(t, "pallet", body["data"].(map[string]any)["scan"].(map[string]any)["kind"])

	for i := 1; i <= 12; i++ {
		status, body = call(t, app, "POST", "/api/scan/sessions/"+sessionID+"/barcodes", fmt.Sprintf(`{"barcode":"B%d"}`, i))
		require.Equal(t, 200, status, body)
	}

	status, body = call(t, app, "POST", "/api/scan/sessions/"+sessionID+"/logs", "")
	require.Equal(t, 201, status, body)
	assert.Len(t, body["data"].(map[string]any)["logs"], 1)

	status, body = call(t, app, "GET", "/api/health", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["active_sessions"])

	status, body = call(t, app, "POST", "/api/scan/sessions/"+sessionID+"/submit", "")
	require.Equal(t, 200, status, body)
	result := body["data"].(map[string]any)
	assert.Equal(t, float64(12), result["item_count"])
	assert.Equal(t, float64(2), result["batches"])

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []int{10, 2}, store.patches["Item"])
	assert.Equal(t, []int{1}, store.patches["Operation"])
	assert.Equal(t, "Stored", store.opStatus)
}

func TestSubmitUnknownSession(t *testing.T) {
	app := setupApp(t, &fakeStore{patches: map[string][]int{}})

	status, body := call(t, app, "POST", "/api/scan/sessions/missing/submit", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, false, body["success"])
}
