package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxSampleRows caps SampleRows when Options.MaxSampleRows is zero.
const DefaultMaxSampleRows = 100

// Row is one source row keyed by column header.
type Row = map[string]string

// Warning is a non-fatal issue found while reading the source.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Dataset is a bounded sample of a source export.
type Dataset struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Format   string   `json:"format"`
	Encoding string   `json:"encoding,omitempty"`
	Sheet    string   `json:"sheet,omitempty"`
	Columns  []string `json:"columns"`
	// SampleRows holds at most MaxSampleRows rows in file order.
	SampleRows []Row `json:"sample_rows"`
	// RowCount is the number of data rows in the whole source.
	RowCount int       `json:"row_count"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Options controls loading.
type Options struct {
	MaxSampleRows int
	// Sheet selects an XLSX worksheet; the first sheet is used when empty.
	Sheet string
}

func (o Options) maxRows() int {
	if o.MaxSampleRows <= 0 {
		return DefaultMaxSampleRows
	}

	return o.MaxSampleRows
}

// LoadFile reads path as XLSX when its extension says so, otherwise as CSV.
func LoadFile(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)

	if IsSpreadsheet(name) {
		return ReadXLSX(f, name, opts)
	}

	return ReadCSV(f, name, opts)
}

// IsSpreadsheet reports whether name has an Excel workbook extension.
func IsSpreadsheet(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx":
		return true
	default:
		return false
	}
}

// Column returns the raw values of column across the sample rows.
func (d *Dataset) Column(column string) []string {
	out := make([]string, 0, len(d.SampleRows))
	for _, row := range d.SampleRows {
		out = append(out, row[column])
	}

	return out
}

// HasColumn reports whether column is in the header.
func (d *Dataset) HasColumn(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}

	return false
}

// build assembles a Dataset from a header and raw records, padding or
// truncating records to the header width.
func build(name, format string, header []string, records [][]string, firstRow int, opts Options) *Dataset {
	d := &Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Format:     format,
		Columns:    uniqueHeaders(header),
		SampleRows: []Row{},
	}

	limit := opts.maxRows()

	for i, rec := range records {
		if isBlankRecord(rec) {
			continue
		}

		d.RowCount++

		if len(rec) != len(d.Columns) {
			if len(rec) > len(d.Columns) && !isBlankRecord(rec[len(d.Columns):]) {
				d.Warnings = append(d.Warnings, Warning{
					Row:     firstRow + i,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(rec), len(d.Columns)),
				})
			}

			padded := make([]string, len(d.Columns))
			copy(padded, rec)
			rec = padded
		}

		if len(d.SampleRows) >= limit {
			continue
		}

		row := make(Row, len(d.Columns))
		for j, c := range d.Columns {
			row[c] = rec[j]
		}

		d.SampleRows = append(d.SampleRows, row)
	}

	return d
}

// uniqueHeaders trims headers, names blank ones "Column N", and suffixes
// duplicates with " (2)", " (3)", and so on.
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}

	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}

		base := h
		for seen[h] > 0 {
			seen[base]++
			h = fmt.Sprintf("%s (%d)", base, seen[base])
		}

		seen[h]++
		out[i] = h
	}

	return out
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
