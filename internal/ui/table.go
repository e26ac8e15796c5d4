package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bugdash/bugdash/internal/spreadsheet"
)

const previewCellWidth = 24

// RenderPreview renders the first rows of a parsed sheet as an aligned
// table for import confirmation. totalRows is printed so the user confirms
// the real batch size, not just the sampled rows.
func RenderPreview(sheet *spreadsheet.Sheet, previewRows, totalRows int) string {
	var b strings.Builder

	rows := sheet.Preview(previewRows)
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Preview (%d of %d rows):", len(rows), totalRows)))
	b.WriteString("\n")

	b.WriteString(renderRecord(sheet.Headers, AccentStyle))
	for _, row := range rows {
		record := make([]string, len(sheet.Headers))
		for i, h := range sheet.Headers {
			record[i] = row[h]
		}
		b.WriteString(renderRecord(record, lipgloss.NewStyle()))
	}
	if totalRows > len(rows) {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("… and %d more rows", totalRows-len(rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRecord(cells []string, style lipgloss.Style) string {
	var b strings.Builder
	for _, cell := range cells {
		b.WriteString(style.Render(pad(cell, previewCellWidth)))
		b.WriteString(" ")
	}
	b.WriteString("\n")
	return b.String()
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
