package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the selected worksheet of an Excel workbook. The first
// non-blank row is the header.
func ReadXLSX(r io.Reader, name string, opts Options) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmpty
		}

		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerAt := -1

	for i, row := range rows {
		if !isBlankRecord(row) {
			headerAt = i

			break
		}
	}

	if headerAt < 0 {
		return nil, ErrEmpty
	}

	d := build(name, "xlsx", rows[headerAt], rows[headerAt+1:], headerAt+2, opts)
	d.Sheet = sheet

	return d, nil
}
