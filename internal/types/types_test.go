package types

import (
	"strings"
	"testing"
)

func TestBugValidation(t *testing.T) {
	tests := []struct {
		name    string
		bug     Bug
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid bug",
			bug: Bug{
				ID:         "b1",
				ProjectID:  "p1",
				Number:     1,
				Title:      "Crash on save",
				Severity:   SeverityHigh,
				Priority:   PriorityMedium,
				Status:     StatusOpen,
				Resolution: ResolutionTodo,
			},
			wantErr: false,
		},
		{
			name: "missing title",
			bug: Bug{
				ProjectID:  "p1",
				Number:     1,
				Severity:   SeverityMedium,
				Priority:   PriorityMedium,
				Status:     StatusNew,
				Resolution: ResolutionTodo,
			},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name: "title too long",
			bug: Bug{
				ProjectID:  "p1",
				Number:     1,
				Title:      strings.Repeat("x", 501),
				Severity:   SeverityMedium,
				Priority:   PriorityMedium,
				Status:     StatusNew,
				Resolution: ResolutionTodo,
			},
			wantErr: true,
			errMsg:  "500 characters or less",
		},
		{
			name: "missing project",
			bug: Bug{
				Number:     1,
				Title:      "orphan",
				Severity:   SeverityMedium,
				Priority:   PriorityMedium,
				Status:     StatusNew,
				Resolution: ResolutionTodo,
			},
			wantErr: true,
			errMsg:  "project_id is required",
		},
		{
			name: "zero number",
			bug: Bug{
				ProjectID:  "p1",
				Title:      "no sequence",
				Severity:   SeverityMedium,
				Priority:   PriorityMedium,
				Status:     StatusNew,
				Resolution: ResolutionTodo,
			},
			wantErr: true,
			errMsg:  "bug number must be positive",
		},
		{
			name: "invalid severity",
			bug: Bug{
				ProjectID:  "p1",
				Number:     1,
				Title:      "bad severity",
				Severity:   "catastrophic",
				Priority:   PriorityMedium,
				Status:     StatusNew,
				Resolution: ResolutionTodo,
			},
			wantErr: true,
			errMsg:  "invalid severity",
		},
		{
			name: "invalid status",
			bug: Bug{
				ProjectID:  "p1",
				Number:     1,
				Title:      "bad status",
				Severity:   SeverityMedium,
				Priority:   PriorityMedium,
				Status:     "reopened",
				Resolution: ResolutionTodo,
			},
			wantErr: true,
			errMsg:  "invalid status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bug.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	b := Bug{ProjectID: "p1", Number: 3}
	b.SetDefaults()

	if b.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", b.Title, DefaultTitle)
	}
	if b.Severity != SeverityMedium {
		t.Errorf("Severity = %q, want medium", b.Severity)
	}
	if b.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want medium", b.Priority)
	}
	if b.Status != StatusNew {
		t.Errorf("Status = %q, want new", b.Status)
	}
	if b.Resolution != ResolutionTodo {
		t.Errorf("Resolution = %q, want todo", b.Resolution)
	}

	// Defaults never overwrite explicit values
	b2 := Bug{Title: "set", Severity: SeverityCrash, Priority: PriorityLow, Status: StatusFixed, Resolution: ResolutionClosed}
	b2.SetDefaults()
	if b2.Title != "set" || b2.Severity != SeverityCrash || b2.Priority != PriorityLow ||
		b2.Status != StatusFixed || b2.Resolution != ResolutionClosed {
		t.Errorf("SetDefaults overwrote explicit values: %+v", b2)
	}
}

func TestParseEnums(t *testing.T) {
	tests := []struct {
		cell string
		want string
		got  func(string) string
	}{
		{"Crash/Undoable", "crash", func(s string) string { return string(ParseSeverity(s)) }},
		{"HIGH", "high", func(s string) string { return string(ParseSeverity(s)) }},
		{"", "medium", func(s string) string { return string(ParseSeverity(s)) }},
		{"banana", "medium", func(s string) string { return string(ParseSeverity(s)) }},
		{"Highest", "highest", func(s string) string { return string(ParsePriority(s)) }},
		{"", "medium", func(s string) string { return string(ParsePriority(s)) }},
		{"To Fix in Update", "fix_in_update", func(s string) string { return string(ParseStatus(s)) }},
		{"Will Not Fix", "wont_fix", func(s string) string { return string(ParseStatus(s)) }},
		{"In Progress", "in_progress", func(s string) string { return string(ParseStatus(s)) }},
		{"", "new", func(s string) string { return string(ParseStatus(s)) }},
		{"To-Do", "todo", func(s string) string { return string(ParseResolution(s)) }},
		{"Confirmed", "confirmed", func(s string) string { return string(ParseResolution(s)) }},
		{"???", "todo", func(s string) string { return string(ParseResolution(s)) }},
	}
	for _, tt := range tests {
		if got := tt.got(tt.cell); got != tt.want {
			t.Errorf("parse(%q) = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestDisplayID(t *testing.T) {
	if got := FormatDisplayID("02", 7); got != "02-007" {
		t.Errorf("FormatDisplayID = %q, want 02-007", got)
	}
	if got := FormatDisplayID("1", 1234); got != "1-1234" {
		t.Errorf("FormatDisplayID = %q, want 1-1234", got)
	}

	code, n, err := ParseDisplayID("02-007")
	if err != nil {
		t.Fatalf("ParseDisplayID: %v", err)
	}
	if code != "02" || n != 7 {
		t.Errorf("ParseDisplayID = (%q, %d), want (02, 7)", code, n)
	}

	for _, bad := range []string{"", "02", "02-", "-7", "ab-7", "02-0"} {
		if _, _, err := ParseDisplayID(bad); err == nil {
			t.Errorf("ParseDisplayID(%q) succeeded, want error", bad)
		}
	}
}
