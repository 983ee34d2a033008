package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = "8080"
	cfg.Server.AllowedOrigins = []string{"https://crediax.example"}
	cfg.Columns.Agent = "Agente"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "10000", cfg.Server.Port)
	assert.Equal(t, int64(100<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "Database", cfg.Import.SheetName)
	assert.Equal(t, "{Customer}", cfg.Tags.Customer)
	assert.Equal(t, "{Transaction}", cfg.Tags.Transaction)
	assert.Equal(t, "Tipo", cfg.Columns.Type)
	assert.True(t, cfg.Storage.Snapshot)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "Database", cfg.Import.SheetName)
	assert.Equal(t, "ID", cfg.Columns.CustomerID)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "sheet_name: Database")
	assert.Contains(t, contents, "customer_id: ID")
	assert.Contains(t, contents, "{Customer}")
	assert.Contains(t, contents, "max_upload_bytes: 104857600")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":             "3000",
		"MAX_UPLOAD_BYTES": "2048",
		"ALLOWED_ORIGINS":  "http://localhost:3000, https://app.example ,",
		"SHEET_NAME":       "Clientes",
		"DATA_DIR":         "/var/lib/crediax",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "json",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "Clientes", cfg.Import.SheetName)
	assert.Equal(t, "/var/lib/crediax", cfg.Storage.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "MAX_UPLOAD_BYTES" {
			return "lots", true
		}
		return "", false
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_UPLOAD_BYTES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{"negative rate", func(c *Config) { c.Server.RateLimit.PerSecond = -1 }},
		{"bad encoding", func(c *Config) { c.Import.CSVEncoding = "ebcdic" }},
		{"no id column", func(c *Config) { c.Columns.CustomerID = "" }},
		{"same tags", func(c *Config) { c.Tags.Transaction = c.Tags.Customer }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		assert.Error(t, cfg.Validate(), tt.name)
	}
}

func TestResolve_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "4321")
	cfg, err := Resolve(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, "4321", cfg.Server.Port)
	assert.Equal(t, "Database", cfg.Import.SheetName)
}

func TestLedgerOptions(t *testing.T) {
	cfg := Default()
	cfg.Columns.Name = "Cliente"
	cfg.Tags.Customer = "C"

	opts := cfg.LedgerOptions()
	assert.Equal(t, "Cliente", opts.Columns.Name)
	assert.Equal(t, "C", opts.CustomerTag)
	assert.Equal(t, "{Transaction}", opts.TransactionTag)
}

func TestSnapshotPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = "/srv/crediax"
	assert.Equal(t, filepath.Join("/srv/crediax", "ledger.json"), cfg.SnapshotPath())

	cfg.Storage.Snapshot = false
	assert.Empty(t, cfg.SnapshotPath())
}
