package ingest

import (
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "praxiscli/internal/errors"
)

// TariffSheetName is the worksheet the tariff export is read from. The
// billing and physician exports use the first sheet of the workbook.
const TariffSheetName = "Prestation"

// Table is one worksheet read with the first row as header. Cells are
// kept as the strings excelize produced; coercion happens in the cleaner.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// ReadWorkbook loads one worksheet from an xlsx workbook. An empty sheet
// name selects the first sheet; a named sheet must exist or the read
// fails with a SheetError.
func ReadWorkbook(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &apperrors.WorkbookError{Cause: err}
	}
	defer f.Close()

	name := sheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &apperrors.SheetError{Sheet: "(first)", Reason: "workbook contains no sheets"}
		}
		name = sheets[0]
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, &apperrors.SheetError{Sheet: name, Reason: "not present in workbook"}
	}
	if len(rows) == 0 {
		return nil, &apperrors.SheetError{Sheet: name, Reason: "sheet is empty"}
	}

	table := &Table{
		Sheet:   name,
		Headers: rows[0],
		Rows:    rows[1:],
	}

	slog.Debug("workbook sheet loaded",
		slog.String("sheet", name),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// cell returns the raw value at the given column, or "" when the row is
// shorter than the schema expects. excelize drops trailing empty cells,
// so short rows are normal. Callers trim where it matters.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
