// Package export serializes bug lists for download.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
)

// csvHeader matches the import template so an exported file can be imported
// back into another project.
var csvHeader = []string{
	"ID", "Title", "Description", "Severity", "Priority", "Status", "Result",
	"Steps_to_reproduce", "Expected_result", "Actual_result", "Attachment",
	"Reporter", "Created_at",
}

// WriteCSV writes the bugs matching the filter as CSV. Rows appear in
// project/number order; the ID column is the composite display identifier.
func WriteCSV(ctx context.Context, w io.Writer, store storage.Storage, filter types.BugFilter) error {
	bugs, err := store.ListBugs(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load bugs: %w", err)
	}

	// Resolve project codes once for display IDs
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	codes := make(map[string]string, len(projects))
	for _, p := range projects {
		codes[p.ID] = p.Code
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, b := range bugs {
		// First attachment only; the template has a single column
		links, err := store.GetAttachments(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("failed to load attachments for bug %s: %w", b.ID, err)
		}
		attachment := ""
		if len(links) > 0 {
			attachment = links[0].URL
		}
		record := []string{
			b.DisplayID(codes[b.ProjectID]),
			b.Title,
			b.Description,
			string(b.Severity),
			string(b.Priority),
			string(b.Status),
			string(b.Resolution),
			b.StepsToReproduce,
			b.ExpectedResult,
			b.ActualResult,
			attachment,
			b.Reporter,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write bug %s: %w", b.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
