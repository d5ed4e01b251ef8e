package handover

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads one sheet of an xlsx workbook as rows of cell text.
// An empty sheet name selects the first sheet. Cells are read raw so date
// cells arrive as Excel serials and are decoded by normalize.ParseDate.
func ReadWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &StructuralParseError{Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, &StructuralParseError{Reason: "workbook has no sheets"}
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &StructuralParseError{Reason: "sheet " + sheet + " not found", Err: err}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &StructuralParseError{Reason: "failed to read rows", Err: err}
	}
	return rows, nil
}
