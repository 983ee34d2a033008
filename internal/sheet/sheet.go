package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/crediax/crediax/internal/model"
)

var (
	// ErrNoSheet is returned when a workbook contains no sheet at all.
	ErrNoSheet = errors.New("no sheet found in workbook")
	// ErrUnsupportedFormat is returned for files no reader understands.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

// Result is the content of the sheet a Reader selected.
type Result struct {
	Sheet    string
	FellBack bool // requested sheet was missing; the first sheet was used
	Rows     []model.RawRow
}

// Reader converts spreadsheet bytes into raw rows.
type Reader interface {
	Read(r io.Reader, sheetName string) (Result, error)
	Format() string
}

// Registry holds readers by format.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// extFormats maps file extensions to reader formats.
var extFormats = map[string]string{
	".xlsx": "xlsx",
	".xlsm": "xlsx",
	".xls":  "xls",
	".csv":  "csv",
}

// ForFilename picks a reader from the file extension.
func (r *Registry) ForFilename(name string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if rd := r.Get(extFormats[ext]); rd != nil {
		return rd, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// DefaultRegistry returns a registry with all built-in readers. CSV input
// is decoded with csvEncoding.
func DefaultRegistry(csvEncoding string) *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&XLSReader{})
	r.Register(&CSVReader{Encoding: csvEncoding})
	return r
}

// pickSheet returns the sheet matching want, falling back to the first one.
func pickSheet(names []string, want string) (string, bool, error) {
	if len(names) == 0 {
		return "", false, ErrNoSheet
	}
	for _, n := range names {
		if n == want {
			return n, false, nil
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, want) {
			return n, false, nil
		}
	}
	return names[0], want != "", nil
}

// buildRows turns a grid into RawRows keyed by the first non-empty row.
func buildRows(records [][]string) []model.RawRow {
	start := -1
	for i, rec := range records {
		if !blank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	header := make([]string, len(records[start]))
	seen := make(map[string]bool, len(header))
	for i, h := range records[start] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		header[i] = h
	}

	var rows []model.RawRow
	for _, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		row := make(model.RawRow, len(seen))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
