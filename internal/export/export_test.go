package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/bugdash/bugdash/internal/storage/memory"
	"github.com/bugdash/bugdash/internal/types"
)

func TestWriteCSV(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	p := &types.Project{Code: "02", Name: "payments"}
	if err := store.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	ids, err := store.CreateBugs(ctx, []*types.Bug{
		{ProjectID: p.ID, Number: 7, Title: "Crash on save", Severity: types.SeverityHigh, Status: types.StatusOpen},
		{ProjectID: p.ID, Number: 8, Title: "Slow scroll"},
	})
	if err != nil {
		t.Fatalf("CreateBugs: %v", err)
	}
	if err := store.CreateAttachments(ctx, []*types.Attachment{{BugID: ids[0], URL: "https://x/y.png"}}); err != nil {
		t.Fatalf("CreateAttachments: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(ctx, &buf, store, types.BugFilter{ProjectID: p.ID}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	header, first := records[0], records[1]
	if header[0] != "ID" || header[10] != "Attachment" {
		t.Errorf("header = %v", header)
	}
	if first[0] != "02-007" {
		t.Errorf("display id = %q, want 02-007", first[0])
	}
	if first[3] != "high" || first[5] != "open" {
		t.Errorf("enums = %v", first)
	}
	if first[10] != "https://x/y.png" {
		t.Errorf("attachment = %q", first[10])
	}
	if records[2][10] != "" {
		t.Errorf("bug without links exported %q", records[2][10])
	}
}

func TestWriteCSVAttachmentLoadFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	p := &types.Project{Code: "01", Name: "payments"}
	if err := store.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := store.CreateBugs(ctx, []*types.Bug{{ProjectID: p.ID, Number: 1, Title: "bug"}}); err != nil {
		t.Fatalf("CreateBugs: %v", err)
	}
	store.GetAttachmentsErr = errors.New("disk gone")

	var buf bytes.Buffer
	err := WriteCSV(ctx, &buf, store, types.BugFilter{})
	if !errors.Is(err, store.GetAttachmentsErr) {
		t.Errorf("WriteCSV error = %v, want the attachment load failure propagated", err)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(context.Background(), &buf, memory.New(), types.BugFilter{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil || len(records) != 1 {
		t.Errorf("empty store export = %v (err %v), want header only", records, err)
	}
}
