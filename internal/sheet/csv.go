package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVSheet is the sheet name reported for CSV input.
const CSVSheet = "csv"

var encodings = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// ValidEncoding reports whether name is a CSV encoding CSVReader accepts.
func ValidEncoding(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	_, ok := encodings[strings.ToLower(name)]
	return ok
}

// CSVReader reads a delimited export of the Database sheet. Comma and
// semicolon delimiters are detected from the header line.
type CSVReader struct {
	Encoding string
}

// Format returns the reader name.
func (c *CSVReader) Format() string { return "csv" }

// Read returns all rows. sheetName is ignored.
func (c *CSVReader) Read(r io.Reader, _ string) (Result, error) {
	if !ValidEncoding(c.Encoding) {
		return Result{}, fmt.Errorf("unknown CSV encoding %q", c.Encoding)
	}
	if enc, ok := encodings[strings.ToLower(c.Encoding)]; ok {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("parsing CSV: %w", err)
	}
	return Result{Sheet: CSVSheet, Rows: buildRows(records)}, nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
