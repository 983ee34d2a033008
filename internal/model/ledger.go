package model

import (
	"strings"
	"time"
)

// RawRow is one unparsed spreadsheet record keyed by column label.
// Missing cells are empty strings.
type RawRow map[string]string

// Get returns the trimmed value of column, or "" when absent.
func (r RawRow) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Ledger is the result of one import. It is not modified after construction.
type Ledger struct {
	ImportID   string             `json:"importId"`
	Source     string             `json:"source,omitempty"`
	Sheet      string             `json:"sheet,omitempty"`
	ImportedAt time.Time          `json:"importedAt"`
	Customers  []Customer         `json:"customers"`
	Histories  map[string]History `json:"histories"`
	Report     ImportReport       `json:"report"`
}

// TransactionCount returns the number of transactions across all histories.
func (l *Ledger) TransactionCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, h := range l.Histories {
		n += len(h)
	}
	return n
}

// ImportReport counts how the rows of an import were classified.
type ImportReport struct {
	TotalRows        int `json:"totalRows"`
	CustomerRows     int `json:"customerRows"`
	TransactionRows  int `json:"transactionRows"`
	SkippedUnknown   int `json:"skippedUnknownTag"`
	SkippedMissingID int `json:"skippedMissingId"`
	Overwritten      int `json:"overwrittenCustomers"`
}

// Skipped returns the number of rows that produced no record.
func (r ImportReport) Skipped() int {
	return r.SkippedUnknown + r.SkippedMissingID
}
