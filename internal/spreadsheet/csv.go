package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM is stripped before CSV decoding; spreadsheets exported from Excel
// commonly prepend it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseCSV(data []byte) (*Sheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are normal in hand-edited sheets
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv decode failed: %v: %w", err, ErrUnsupportedFormat)
	}
	return buildRows(records)
}
