package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/crediax/crediax/internal/ledger"
	"github.com/crediax/crediax/internal/sheet"
)

// FileName is the default config file name.
const FileName = "crediax.yaml"

// Config represents the top-level crediax.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Import  ImportConfig  `yaml:"import"`
	Columns ColumnsConfig `yaml:"columns"`
	Tags    TagsConfig    `yaml:"tags"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port           string          `yaml:"port"`
	MaxUploadBytes int64           `yaml:"max_upload_bytes"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig sizes the global token bucket. PerSecond 0 disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// ImportConfig controls how uploaded workbooks are read.
type ImportConfig struct {
	SheetName   string `yaml:"sheet_name"`
	CSVEncoding string `yaml:"csv_encoding"`
}

// ColumnsConfig names the workbook column behind each field.
type ColumnsConfig struct {
	Type         string `yaml:"type"`
	CustomerID   string `yaml:"customer_id"`
	Name         string `yaml:"name"`
	Agent        string `yaml:"agent"`
	Balance      string `yaml:"balance"`
	Date         string `yaml:"date"`
	Concept      string `yaml:"concept"`
	Amount       string `yaml:"amount"`
	TxBalance    string `yaml:"tx_balance"`
	MovementType string `yaml:"movement_type"`
}

// TagsConfig holds the type tag values.
type TagsConfig struct {
	Customer    string `yaml:"customer"`
	Transaction string `yaml:"transaction"`
}

// StorageConfig controls on-disk state.
type StorageConfig struct {
	DataDir  string `yaml:"data_dir"`
	Snapshot bool   `yaml:"snapshot"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a crediax.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve loads path if it exists, otherwise starts from defaults, then
// applies .env and environment overrides and validates the result.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	// A missing .env file is normal.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config matching the Database workbook layout.
func Default() *Config {
	opts := ledger.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Port:           "10000",
			MaxUploadBytes: 100 << 20,
			AllowedOrigins: []string{"*"},
			RateLimit:      RateLimitConfig{PerSecond: 10, Burst: 30},
		},
		Import: ImportConfig{
			SheetName:   "Database",
			CSVEncoding: "utf-8",
		},
		Columns: ColumnsConfig{
			Type:         opts.Columns.Type,
			CustomerID:   opts.Columns.CustomerID,
			Name:         opts.Columns.Name,
			Agent:        opts.Columns.Agent,
			Balance:      opts.Columns.Balance,
			Date:         opts.Columns.Date,
			Concept:      opts.Columns.Concept,
			Amount:       opts.Columns.Amount,
			TxBalance:    opts.Columns.TxBalance,
			MovementType: opts.Columns.MovementType,
		},
		Tags: TagsConfig{
			Customer:    opts.CustomerTag,
			Transaction: opts.TransactionTag,
		},
		Storage: StorageConfig{
			DataDir:  "data",
			Snapshot: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Port = v
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.Server.MaxUploadBytes = n
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v, ok := lookup("SHEET_NAME"); ok && v != "" {
		c.Import.SheetName = v
	}
	if v, ok := lookup("DATA_DIR"); ok && v != "" {
		c.Storage.DataDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate checks values that would otherwise fail at request time.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.RateLimit.PerSecond < 0 {
		return fmt.Errorf("server.rate_limit.per_second must not be negative")
	}
	if !sheet.ValidEncoding(c.Import.CSVEncoding) {
		return fmt.Errorf("import.csv_encoding %q is not supported", c.Import.CSVEncoding)
	}
	if c.Columns.Type == "" || c.Columns.CustomerID == "" {
		return errors.New("columns.type and columns.customer_id are required")
	}
	if c.Tags.Customer == "" || c.Tags.Transaction == "" || c.Tags.Customer == c.Tags.Transaction {
		return errors.New("tags.customer and tags.transaction must be distinct and non-empty")
	}
	return nil
}

// LedgerOptions converts the column and tag settings for the importer.
func (c *Config) LedgerOptions() ledger.Options {
	return ledger.Options{
		Columns: ledger.Columns{
			Type:         c.Columns.Type,
			CustomerID:   c.Columns.CustomerID,
			Name:         c.Columns.Name,
			Agent:        c.Columns.Agent,
			Balance:      c.Columns.Balance,
			Date:         c.Columns.Date,
			Concept:      c.Columns.Concept,
			Amount:       c.Columns.Amount,
			TxBalance:    c.Columns.TxBalance,
			MovementType: c.Columns.MovementType,
		},
		CustomerTag:    c.Tags.Customer,
		TransactionTag: c.Tags.Transaction,
	}
}

// SnapshotPath returns the snapshot location, or "" when snapshots are off.
func (c *Config) SnapshotPath() string {
	if !c.Storage.Snapshot {
		return ""
	}
	return filepath.Join(c.Storage.DataDir, ledger.SnapshotFile)
}
