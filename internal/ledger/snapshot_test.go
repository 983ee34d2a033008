package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	l := sampleLedger()
	l.ImportID = "abc"
	l.Source = "Database.xlsm"
	l.Sheet = "Database"

	path := filepath.Join(t.TempDir(), "data", SnapshotFile)
	require.NoError(t, SaveSnapshot(path, l))

	got, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ImportID)
	assert.Equal(t, "Database.xlsm", got.Source)
	assert.True(t, l.ImportedAt.Equal(got.ImportedAt))
	assert.Equal(t, l.Report, got.Report)
	require.Len(t, got.Customers, 3)
	assert.True(t, got.Customers[0].CurrentBalance.Equal(dec("100")))
	require.Len(t, got.Histories["7"], 2)
	assert.Equal(t, "venta", got.Histories["7"][0].Concept)
}

func TestSnapshot_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFile)
	first := sampleLedger()
	first.ImportID = "first"
	require.NoError(t, SaveSnapshot(path, first))

	second := sampleLedger()
	second.ImportID = "second"
	require.NoError(t, SaveSnapshot(path, second))

	got, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "second", got.ImportID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), SnapshotFile))
	assert.ErrorIs(t, err, ErrNoLedger)
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing snapshot")
}

func TestSaveSnapshot_Nil(t *testing.T) {
	err := SaveSnapshot(filepath.Join(t.TempDir(), SnapshotFile), nil)
	assert.ErrorIs(t, err, ErrNoLedger)
}
