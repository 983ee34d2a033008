package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads Office Open XML workbooks (.xlsx, .xlsm).
type XLSXReader struct{}

// Format returns the reader name.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read returns the rows of sheetName, or of the first sheet if it is missing.
func (x *XLSXReader) Read(r io.Reader, sheetName string) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("opening xlsx workbook: %w", err)
	}
	defer f.Close()

	name, fellBack, err := pickSheet(f.GetSheetList(), sheetName)
	if err != nil {
		return Result{}, err
	}

	// Raw values: number formats would turn 1234 into "1,234".
	records, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Result{}, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	return Result{Sheet: name, FellBack: fellBack, Rows: buildRows(records)}, nil
}
