// Package spreadsheet parses uploaded bug sheets into ordered row maps.
//
// Supported formats: CSV (UTF-8, optional BOM), XLSX, and legacy XLS
// workbooks (first sheet only). Parsing is pure: the same bytes always
// produce the same sheet, and nothing here touches the store.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyInput is returned when the file parsed cleanly but contained zero
// data rows (a header alone counts as empty).
var ErrEmptyInput = errors.New("no data rows in input file")

// ErrUnsupportedFormat is returned when the file could not be decoded as
// any supported format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DefaultPreviewRows is how many rows the import preview shows.
const DefaultPreviewRows = 5

// Row maps column header to raw cell value. Cells under missing headers are
// absent; cells past the header width are dropped.
type Row map[string]string

// Sheet is one parsed table: an ordered header and its data rows in file
// order.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// Preview returns the first n rows unchanged for user confirmation.
// Display-only: confirming a preview never limits what gets imported.
func (s *Sheet) Preview(n int) []Row {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	return s.Rows[:n]
}

// xlsxMagic is the ZIP local-file-header signature an XLSX starts with.
var xlsxMagic = []byte{'P', 'K', 0x03, 0x04}

// oleMagic is the legacy OLE compound-file signature of pre-2007 .xls files.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}

// ParseFile reads and parses a spreadsheet from disk, using the file
// extension as a format hint.
func ParseFile(path string) (*Sheet, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes raw file bytes. The extension hint ("csv", ".xlsx", ...)
// guides format choice; content sniffing wins when they disagree.
func Parse(data []byte, extHint string) (*Sheet, error) {
	switch {
	case bytes.HasPrefix(data, xlsxMagic):
		return parseXLSX(data)
	case bytes.HasPrefix(data, oleMagic):
		return parseXLS(data)
	}

	switch strings.ToLower(strings.TrimPrefix(extHint, ".")) {
	case "xlsx", "xls":
		// Extension claims a workbook but the magic bytes disagree
		return nil, fmt.Errorf("file is not a valid workbook: %w", ErrUnsupportedFormat)
	default:
		return parseCSV(data)
	}
}

// buildRows converts raw records into header-keyed row maps, dropping rows
// whose cells are all blank.
func buildRows(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	headers := records[0]
	sheet := &Sheet{Headers: headers}
	for _, record := range records[1:] {
		if allBlank(record) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if len(sheet.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	return sheet, nil
}

func allBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
