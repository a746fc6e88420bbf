package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ErrEmpty is returned for a source without a header row.
var ErrEmpty = errors.New("empty file: no header row found")

// ReadCSV reads a CSV export. The encoding is detected from a byte order mark;
// invalid UTF-8 without one is decoded as Windows-1252, which most ERP
// systems on Western locales emit.
func ReadCSV(r io.Reader, name string, opts Options) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	body, enc := detectEncoding(data)

	reader := csv.NewReader(body)
	// Exports vary in width; padding and truncation happen in build.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}

		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var (
		records  [][]string
		warnings []Warning
		line     = 1
	)

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		line++

		if err != nil {
			warnings = append(warnings, Warning{Row: line, Message: fmt.Sprintf("parse error: %v", err)})

			continue
		}

		records = append(records, rec)
	}

	d := build(name, "csv", header, records, 2, opts)
	d.Encoding = enc
	d.Warnings = append(warnings, d.Warnings...)

	return d, nil
}

// detectEncoding returns a UTF-8 reader over data and the detected encoding name.
func detectEncoding(data []byte) (io.Reader, string) {
	var (
		dec  *encoding.Decoder
		name string
	)

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return bytes.NewReader(data[len(bomUTF8):]), "utf-8-bom"
	case bytes.HasPrefix(data, bomUTF16LE):
		dec, name = xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM).NewDecoder(), "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		dec, name = xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder(), "utf-16be"
	case utf8.Valid(data):
		return bytes.NewReader(data), "utf-8"
	default:
		dec, name = charmap.Windows1252.NewDecoder(), "windows-1252"
	}

	return transform.NewReader(bytes.NewReader(data), dec), name
}
