package importlog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:    testTime,
		ImportID:     "0b6c8a4e-1f2d-4c3b-9a8e-7d6c5b4a3f21",
		Source:       "Database.xlsm",
		Sheet:        "Database",
		Status:       StatusOK,
		Rows:         120,
		Customers:    14,
		Transactions: 98,
		Details:      "8 rows skipped",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Database.xlsm", entries[0].Source)
	assert.Equal(t, 98, entries[0].Transactions)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Status = StatusFailed
	e2.Details = "no sheet found in workbook"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, StatusFailed, entries[1].Status)
	assert.Equal(t, "no sheet found in workbook", entries[1].Details)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	row := MarshalEntry(e)
	assert.Len(t, row, 9)
	assert.Equal(t, "2024-03-05T09:15:00Z", row[0])

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, e.ImportID, got.ImportID)
	assert.Equal(t, e.Rows, got.Rows)
	assert.Equal(t, e.Customers, got.Customers)
	assert.Equal(t, e.Details, got.Details)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 9 fields")
}

func TestUnmarshalEntry_BadCount(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colRows] = "many"
	_, err := UnmarshalEntry(row)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing count")
}

func TestLog_ConcurrentRecord(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Record(testEntry()))
		}()
	}
	wg.Wait()

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}
