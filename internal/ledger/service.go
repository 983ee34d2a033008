package ledger

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crediax/crediax/internal/importlog"
	"github.com/crediax/crediax/internal/logger"
	"github.com/crediax/crediax/internal/model"
	"github.com/crediax/crediax/internal/sheet"
)

// ImporterConfig configures an Importer.
type ImporterConfig struct {
	Options   Options
	SheetName string
	// SnapshotPath is where each imported ledger is saved. Empty disables snapshots.
	SnapshotPath string
	// Log records every import attempt. Nil disables the import log.
	Log *importlog.Log
}

// Importer reads uploaded workbooks and publishes the result to a Store.
type Importer struct {
	// mu serializes publish and snapshot so the file on disk matches the store.
	mu      sync.Mutex
	store   *Store
	readers *sheet.Registry
	cfg     ImporterConfig
}

// NewImporter creates an Importer.
func NewImporter(store *Store, readers *sheet.Registry, cfg ImporterConfig) *Importer {
	return &Importer{store: store, readers: readers, cfg: cfg}
}

// Store returns the store the importer publishes to.
func (im *Importer) Store() *Store {
	return im.store
}

// Import parses the workbook in r and replaces the current ledger. On any
// error the current ledger is left as it was.
func (im *Importer) Import(ctx context.Context, filename string, r io.Reader) (*model.Ledger, error) {
	log := logger.FromContext(ctx)
	importID := uuid.NewString()
	source := filepath.Base(filename)

	rd, err := im.readers.ForFilename(filename)
	if err != nil {
		im.record(ctx, importlog.Entry{ImportID: importID, Source: source, Status: importlog.StatusFailed, Details: err.Error()})
		return nil, err
	}

	res, err := rd.Read(r, im.cfg.SheetName)
	if err != nil {
		im.record(ctx, importlog.Entry{ImportID: importID, Source: source, Status: importlog.StatusFailed, Details: err.Error()})
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	if res.FellBack {
		log.Warn().
			Str("wanted", im.cfg.SheetName).
			Str("using", res.Sheet).
			Msg("sheet not found, using first sheet")
	}

	if err := ctx.Err(); err != nil {
		im.record(ctx, importlog.Entry{ImportID: importID, Source: source, Sheet: res.Sheet, Status: importlog.StatusFailed, Details: err.Error()})
		return nil, err
	}

	l := Parse(res.Rows, im.cfg.Options)
	l.ImportID = importID
	l.Source = source
	l.Sheet = res.Sheet

	im.mu.Lock()
	defer im.mu.Unlock()
	im.store.Replace(l)

	log.Info().
		Str("import_id", importID).
		Str("source", source).
		Str("sheet", res.Sheet).
		Int("rows", l.Report.TotalRows).
		Int("customers", len(l.Customers)).
		Int("transactions", l.TransactionCount()).
		Int("skipped", l.Report.Skipped()).
		Msg("ledger imported")

	if im.cfg.SnapshotPath != "" {
		if err := SaveSnapshot(im.cfg.SnapshotPath, l); err != nil {
			log.Error().Err(err).Str("path", im.cfg.SnapshotPath).Msg("failed to write snapshot")
		}
	}

	im.record(ctx, importlog.Entry{
		ImportID:     importID,
		Source:       source,
		Sheet:        res.Sheet,
		Status:       importlog.StatusOK,
		Rows:         l.Report.TotalRows,
		Customers:    len(l.Customers),
		Transactions: l.TransactionCount(),
		Details:      fmt.Sprintf("%d rows skipped", l.Report.Skipped()),
	})
	return l, nil
}

// Restore loads the snapshot, if any, into the store.
func (im *Importer) Restore(ctx context.Context) (*model.Ledger, error) {
	if im.cfg.SnapshotPath == "" {
		return nil, ErrNoLedger
	}
	l, err := LoadSnapshot(im.cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	im.mu.Lock()
	im.store.Replace(l)
	im.mu.Unlock()
	log := logger.FromContext(ctx)
	log.Info().
		Str("import_id", l.ImportID).
		Time("imported_at", l.ImportedAt).
		Int("customers", len(l.Customers)).
		Msg("ledger restored from snapshot")
	return l, nil
}

func (im *Importer) record(ctx context.Context, e importlog.Entry) {
	if im.cfg.Log == nil {
		return
	}
	e.Timestamp = time.Now().UTC()
	if err := im.cfg.Log.Record(e); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to write import log")
	}
}
