package sheet

import (
	"fmt"
	"io"
	"os"

	"github.com/shakinm/xlsReader/xls"
)

// XLSReader reads legacy BIFF workbooks (.xls).
type XLSReader struct{}

// Format returns the reader name.
func (x *XLSReader) Format() string { return "xls" }

// Read returns the rows of sheetName, or of the first sheet if it is missing.
// The xls library only opens paths, so the input is spooled to a temp file.
func (x *XLSReader) Read(r io.Reader, sheetName string) (Result, error) {
	tmp, err := os.CreateTemp("", "crediax-*.xls")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("spooling xls upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("closing temp file: %w", err)
	}

	wb, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return Result{}, fmt.Errorf("opening xls workbook: %w", err)
	}

	names := make([]string, 0, wb.GetNumberSheets())
	for i := 0; i < wb.GetNumberSheets(); i++ {
		s, err := wb.GetSheet(i)
		if err != nil || s == nil {
			continue
		}
		names = append(names, s.GetName())
	}

	name, fellBack, err := pickSheet(names, sheetName)
	if err != nil {
		return Result{}, err
	}

	var records [][]string
	for i := 0; i < wb.GetNumberSheets(); i++ {
		s, err := wb.GetSheet(i)
		if err != nil || s == nil || s.GetName() != name {
			continue
		}
		for j := 0; j <= int(s.GetNumberRows()); j++ {
			row, err := s.GetRow(j)
			if err != nil || row == nil {
				records = append(records, nil)
				continue
			}
			var rec []string
			for _, col := range row.GetCols() {
				if col == nil {
					rec = append(rec, "")
					continue
				}
				rec = append(rec, col.GetString())
			}
			records = append(records, rec)
		}
		break
	}
	return Result{Sheet: name, FellBack: fellBack, Rows: buildRows(records)}, nil
}
