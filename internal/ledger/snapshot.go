package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crediax/crediax/internal/model"
)

// SnapshotFile is the ledger snapshot name inside the data directory.
const SnapshotFile = "ledger.json"

// SaveSnapshot writes l to path as JSON. The file is replaced atomically.
func SaveSnapshot(path string, l *model.Ledger) error {
	if l == nil {
		return ErrNoLedger
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving snapshot into place: %w", err)
	}
	return nil
}

// LoadSnapshot reads a ledger written by SaveSnapshot.
// Returns ErrNoLedger if the file does not exist.
func LoadSnapshot(path string) (*model.Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoLedger
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var l model.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	if l.Histories == nil {
		l.Histories = make(map[string]model.History)
	}
	return &l, nil
}
