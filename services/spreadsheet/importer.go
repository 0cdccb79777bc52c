package spreadsheetsvc

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/feeledger/core/fee"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: upload a .xlsx, .xls or .csv file")

// Parse reads the first sheet of an .xlsx, .xls or .csv file.
// The first row holds the headers; every following non-empty row becomes a fee.SheetRow.
func Parse(filename string, r io.Reader) ([]fee.SheetRow, error) {
	var (
		grid [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		grid, err = readXLSX(r)
	case ".xls":
		grid, err = readXLS(r)
	case ".csv":
		grid, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return toSheetRows(grid), nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening xlsx")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading sheet %q", sheet)
	}
	return rows, nil
}

func readXLS(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading xls")
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening xls")
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading csv")
	}
	return rows, nil
}

// toSheetRows keys every data cell by its column header. Columns without a header are ignored.
func toSheetRows(grid [][]string) []fee.SheetRow {
	if len(grid) < 2 {
		return nil
	}
	headers := grid[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff") // UTF-8 BOM
	}

	rows := make([]fee.SheetRow, 0, len(grid)-1)
	for _, line := range grid[1:] {
		row := make(fee.SheetRow, 0, len(line))
		for i, value := range line {
			if i >= len(headers) || strings.TrimSpace(headers[i]) == "" {
				continue
			}
			if strings.TrimSpace(value) == "" {
				continue
			}
			row = append(row, fee.Cell{Header: headers[i], Value: value})
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
