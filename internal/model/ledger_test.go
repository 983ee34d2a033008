package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawRowGet(t *testing.T) {
	row := RawRow{"ID": "  7 ", "Nombre": "Ana"}

	assert.Equal(t, "7", row.Get("ID"))
	assert.Equal(t, "Ana", row.Get("Nombre"))
	assert.Equal(t, "", row.Get("Gestor"))
}

func TestLedgerTransactionCount(t *testing.T) {
	l := &Ledger{Histories: map[string]History{
		"7": {{CustomerID: "7"}, {CustomerID: "7"}},
		"9": {{CustomerID: "9"}},
	}}
	assert.Equal(t, 3, l.TransactionCount())

	var nilLedger *Ledger
	assert.Equal(t, 0, nilLedger.TransactionCount())
}

func TestImportReportSkipped(t *testing.T) {
	r := ImportReport{SkippedUnknown: 2, SkippedMissingID: 3}
	assert.Equal(t, 5, r.Skipped())
}
