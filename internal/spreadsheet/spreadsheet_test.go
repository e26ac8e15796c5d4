package spreadsheet

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := []byte("Title,Severity,Status\n" +
		"\"Crash on save\",High,Open\n" +
		"Slow scrolling,Low,New\n")

	sheet, err := Parse(data, ".csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(sheet.Headers, []string{"Title", "Severity", "Status"}) {
		t.Errorf("headers = %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(sheet.Rows))
	}
	if sheet.Rows[0]["Title"] != "Crash on save" || sheet.Rows[0]["Severity"] != "High" {
		t.Errorf("row 0 = %v", sheet.Rows[0])
	}
}

func TestParseCSVRowCountPreserved(t *testing.T) {
	// Header handling must not eat or duplicate data rows
	for _, n := range []int{1, 5, 100} {
		data := []byte("Title\n")
		for i := 0; i < n; i++ {
			data = append(data, []byte(fmt.Sprintf("bug %d\n", i))...)
		}
		sheet, err := Parse(data, ".csv")
		if err != nil {
			t.Fatalf("Parse(%d rows): %v", n, err)
		}
		if len(sheet.Rows) != n {
			t.Errorf("got %d rows, want %d", len(sheet.Rows), n)
		}
	}
}

func TestParseCSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Title\nhello\n")...)
	sheet, err := Parse(data, ".csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sheet.Headers[0] != "Title" {
		t.Errorf("BOM leaked into header: %q", sheet.Headers[0])
	}
	if sheet.Rows[0]["Title"] != "hello" {
		t.Errorf("row = %v", sheet.Rows[0])
	}
}

func TestParseCSVRaggedRows(t *testing.T) {
	data := []byte("Title,Severity,Attachment\n" +
		"short row\n" +
		"full row,High,https://x/y.png,spilled cell\n")
	sheet, err := Parse(data, ".csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Missing cells come back empty, extra cells are dropped
	if sheet.Rows[0]["Severity"] != "" || sheet.Rows[0]["Attachment"] != "" {
		t.Errorf("short row = %v", sheet.Rows[0])
	}
	if sheet.Rows[1]["Attachment"] != "https://x/y.png" {
		t.Errorf("full row = %v", sheet.Rows[1])
	}
}

func TestParseEmptyInput(t *testing.T) {
	cases := map[string][]byte{
		"header only": []byte("Title,Severity\n"),
		"zero bytes":  {},
		"blank rows":  []byte("Title\n\n   \n"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(data, ".csv")
			if !errors.Is(err, ErrEmptyInput) {
				t.Errorf("got %v, want ErrEmptyInput", err)
			}
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	cases := map[string]struct {
		data []byte
		hint string
	}{
		"xlsx hint not a zip":     {[]byte("Title\nrow\n"), ".xlsx"},
		"xls hint not a workbook": {[]byte("Title\nrow\n"), ".xls"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tc.data, tc.hint)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("got %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestParseXLSRoutedToDecoder(t *testing.T) {
	// OLE magic must reach the xls decoder rather than being refused
	// outright. A truncated container fails inside the decoder.
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 8)...)
	_, err := Parse(data, ".xls")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
	if err == nil || !strings.Contains(err.Error(), "xls decode failed") {
		t.Errorf("error must come from the xls decoder, got %v", err)
	}
}

func buildXLSX(t *testing.T, sheets map[string][][]string, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("NewSheet: %v", err)
			}
		}
		for r, record := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &record); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParseXLSXFirstSheetOnly(t *testing.T) {
	data := buildXLSX(t, map[string][][]string{
		"Bugs": {
			{"Title", "Severity"},
			{"Crash on save", "High"},
		},
		"Ignored": {
			{"Title"},
			{"should not appear"},
		},
	}, []string{"Bugs", "Ignored"})

	sheet, err := Parse(data, ".xlsx")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sheet.Rows) != 1 {
		t.Fatalf("got %d rows, want 1 (second sheet must be ignored)", len(sheet.Rows))
	}
	if sheet.Rows[0]["Title"] != "Crash on save" || sheet.Rows[0]["Severity"] != "High" {
		t.Errorf("row = %v", sheet.Rows[0])
	}
}

func TestParseXLSXEmpty(t *testing.T) {
	data := buildXLSX(t, map[string][][]string{
		"Bugs": {{"Title", "Severity"}},
	}, []string{"Bugs"})

	_, err := Parse(data, ".xlsx")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("got %v, want ErrEmptyInput", err)
	}
}

func TestReparseIsIdentical(t *testing.T) {
	data := []byte("Title,Attachment\nfirst,https://a\nsecond,\n")
	s1, err := Parse(data, ".csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s2, err := Parse(data, ".csv")
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("re-parse differs:\n%+v\n%+v", s1, s2)
	}
}

func TestPreview(t *testing.T) {
	sheet := &Sheet{Headers: []string{"Title"}}
	for i := 0; i < 8; i++ {
		sheet.Rows = append(sheet.Rows, Row{"Title": fmt.Sprintf("bug %d", i)})
	}

	if got := sheet.Preview(0); len(got) != DefaultPreviewRows {
		t.Errorf("default preview = %d rows, want %d", len(got), DefaultPreviewRows)
	}
	if got := sheet.Preview(3); len(got) != 3 || got[0]["Title"] != "bug 0" {
		t.Errorf("preview(3) = %v", got)
	}
	if got := sheet.Preview(100); len(got) != 8 {
		t.Errorf("preview past end = %d rows, want 8", len(got))
	}
}
