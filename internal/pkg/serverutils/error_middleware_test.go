package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/scan"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "scan validation", err: scan.ErrNoPallet, wantCode: 400},
		{name: "struct validation", err: &ValidationError{Fields: map[string]string{"Logs": "min"}}, wantCode: 400},
		{name: "lookup", err: scan.Lookupf("operation %q not found", "OP-1"), wantCode: 404},
		{name: "store not found", err: fmt.Errorf("find: %w", airtable.ErrNotFound), wantCode: 404},
		{name: "chunk failure", err: &scan.ChunkError{Applied: 1, Total: 3, Err: errors.New("boom")}, wantCode: 502},
		{name: "transport", err: scan.Transport("update operation", errors.New("timeout")), wantCode: 502},
		{name: "api error", err: &airtable.APIError{StatusCode: 422, Type: "INVALID"}, wantCode: 502},
		{name: "fiber error", err: fiber.NewError(fiber.StatusConflict, "busy"), wantCode: 409},
		{name: "unknown", err: errors.New("kaput"), wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := Classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/fail", func(ctx *fiber.Ctx) error { return scan.ErrEmptySelection })
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("fine", fiber.Map{"n": 1}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body BaseResponse[any]
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "please select at least one item", body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Direction string `validate:"required,oneof=incoming outgoing"`
	}

	assert.NoError(t, ValidateRequest(req{Direction: "incoming"}))

	err := ValidateRequest(req{Direction: "sideways"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "oneof", verr.Fields["req.Direction"])
}
