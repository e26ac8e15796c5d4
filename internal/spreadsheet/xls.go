package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

func parseXLS(data []byte) (*Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("xls decode failed: %v: %w", err, ErrUnsupportedFormat)
	}

	// Only the first sheet is read; extra sheets are ignored.
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyInput
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		records = append(records, cells)
	}
	return buildRows(records)
}
