package importer

import (
	"strings"

	"github.com/bugdash/bugdash/internal/spreadsheet"
	"github.com/bugdash/bugdash/internal/types"
)

// Recognized column headers. Matching is case-sensitive to stay faithful to
// the sheet template; anything else is ignored.
const (
	colTitle            = "Title"
	colDescription      = "Description"
	colSeverity         = "Severity"
	colPriority         = "Priority"
	colStatus           = "Status"
	colResult           = "Result"
	colStepsToReproduce = "Steps_to_reproduce"
	colExpectedResult   = "Expected_result"
	colActualResult     = "Actual_result"
	colAttachment       = "Attachment"
)

// MapRow converts one parsed row into a bug candidate. The mapping is pure
// and total: unrecognized enum cells fall back to defaults and a blank
// title becomes the placeholder, so no row is ever rejected. The sequence
// number is assigned later by the allocator.
func MapRow(row spreadsheet.Row, projectID, reporter string) *types.Bug {
	bug := &types.Bug{
		ProjectID:        projectID,
		Title:            strings.TrimSpace(row[colTitle]),
		Description:      strings.TrimSpace(row[colDescription]),
		StepsToReproduce: strings.TrimSpace(row[colStepsToReproduce]),
		ExpectedResult:   strings.TrimSpace(row[colExpectedResult]),
		ActualResult:     strings.TrimSpace(row[colActualResult]),
		Severity:         types.ParseSeverity(row[colSeverity]),
		Priority:         types.ParsePriority(row[colPriority]),
		Status:           types.ParseStatus(row[colStatus]),
		Resolution:       types.ParseResolution(row[colResult]),
		Reporter:         reporter,
	}
	bug.SetDefaults()
	return bug
}

// AttachmentURL extracts the attachment link from a row, empty when absent.
func AttachmentURL(row spreadsheet.Row) string {
	return strings.TrimSpace(row[colAttachment])
}
