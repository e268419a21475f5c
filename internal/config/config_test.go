package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AIRTABLE_API_KEY", "key")
	t.Setenv("AIRTABLE_BASE_ID", "app")

	cfg := Load()

	assert.Equal(t, 100*time.Millisecond, cfg.Scan.KeyGap)
	assert.Equal(t, "Enter", cfg.Scan.TerminatorKey)
	assert.Equal(t, 120*time.Minute, cfg.Scan.SessionTTL)
	assert.Equal(t, "Grid view", cfg.Airtable.View)
	assert.Equal(t, 15*time.Second, cfg.Airtable.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AIRTABLE_API_KEY", "key")
	t.Setenv("AIRTABLE_BASE_ID", "app")
	t.Setenv("SCAN_KEY_GAP_MS", "250")
	t.Setenv("SCAN_BARCODE_FIELDS", " Barcode , SKU,,")
	t.Setenv("SCAN_SELECTION_MODE", "add-only")
	t.Setenv("SCAN_STRIP_PREFIX_LEN", "3")

	cfg := Load()

	assert.Equal(t, 250*time.Millisecond, cfg.Scan.KeyGap)
	assert.Equal(t, []string{"Barcode", "SKU"}, cfg.Scan.BarcodeFields)
	assert.Equal(t, "add-only", cfg.Scan.SelectionMode)
	assert.Equal(t, 3, cfg.Scan.StripPrefixLen)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Airtable: AirtableConfig{APIKey: "k", BaseID: "b"},
			Scan:     ScanConfig{KeyGap: time.Millisecond, TerminatorKey: "Enter", SelectionMode: "toggle"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.Airtable.APIKey = "" }, wantErr: "AIRTABLE_API_KEY"},
		{name: "missing base id", mutate: func(c *Config) { c.Airtable.BaseID = "" }, wantErr: "AIRTABLE_BASE_ID"},
		{name: "bad mode", mutate: func(c *Config) { c.Scan.SelectionMode = "merge" }, wantErr: "SCAN_SELECTION_MODE"},
		{name: "zero gap", mutate: func(c *Config) { c.Scan.KeyGap = 0 }, wantErr: "SCAN_KEY_GAP_MS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
