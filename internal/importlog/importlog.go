package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Status values recorded for an import.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp    time.Time
	ImportID     string
	Source       string
	Sheet        string
	Status       string
	Rows         int
	Customers    int
	Transactions int
	Details      string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,import_id,source,sheet,status,rows,customers,transactions,details"

const (
	numFields       = 9
	logDir          = "logs"
	logFile         = "logs/import-log.csv"
	colTimestamp    = 0
	colImportID     = 1
	colSource       = 2
	colSheet        = 3
	colStatus       = 4
	colRows         = 5
	colCustomers    = 6
	colTransactions = 7
	colDetails      = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colImportID] = e.ImportID
	row[colSource] = e.Source
	row[colSheet] = e.Sheet
	row[colStatus] = e.Status
	row[colRows] = strconv.Itoa(e.Rows)
	row[colCustomers] = strconv.Itoa(e.Customers)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 3)
	for i, col := range []int{colRows, colCustomers, colTransactions} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp:    ts,
		ImportID:     record[colImportID],
		Source:       record[colSource],
		Sheet:        record[colSheet],
		Status:       record[colStatus],
		Rows:         counts[0],
		Customers:    counts[1],
		Transactions: counts[2],
		Details:      record[colDetails],
	}, nil
}

// Append writes entries to <dataDir>/logs/import-log.csv, creating the file and header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	path := filepath.Join(dataDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log serializes appends to one data directory's import log.
type Log struct {
	mu      sync.Mutex
	dataDir string
}

// New returns a Log writing under dataDir.
func New(dataDir string) *Log {
	return &Log{dataDir: dataDir}
}

// Record appends a single entry.
func (l *Log) Record(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Append(l.dataDir, []Entry{e})
}
