// Package types defines core data structures for the bugdash tracker.
package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Project is the owning container for bugs.
type Project struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"` // zero-padded display code, e.g. "02"
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the project has valid field values
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Code == "" {
		return fmt.Errorf("project code is required")
	}
	if _, err := strconv.Atoi(p.Code); err != nil {
		return fmt.Errorf("project code must be numeric (got %q)", p.Code)
	}
	return nil
}

// Bug represents a tracked defect
type Bug struct {
	ID               string     `json:"id"`
	ProjectID        string     `json:"project_id"`
	Number           int        `json:"number"` // per-project sequence, unique within project
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	StepsToReproduce string     `json:"steps_to_reproduce,omitempty"`
	ExpectedResult   string     `json:"expected_result,omitempty"`
	ActualResult     string     `json:"actual_result,omitempty"`
	Severity         Severity   `json:"severity,omitempty"`
	Priority         Priority   `json:"priority,omitempty"`
	Status           Status     `json:"status,omitempty"`
	Resolution       Resolution `json:"resolution,omitempty"`
	Reporter         string     `json:"reporter,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Attachments []*Attachment `json:"attachments,omitempty"` // Populated only for show/export
	Comments    []*Comment    `json:"comments,omitempty"`    // Populated only for show/export
}

// DisplayID builds the human-readable composite identifier from the
// project's display code and the bug's sequence number, e.g. "02-007".
func (b *Bug) DisplayID(projectCode string) string {
	return FormatDisplayID(projectCode, b.Number)
}

// FormatDisplayID renders a composite bug identifier.
// The number is padded to three digits but grows past 999 without truncation.
func FormatDisplayID(projectCode string, number int) string {
	return fmt.Sprintf("%s-%03d", projectCode, number)
}

var displayIDRegex = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ParseDisplayID splits a composite identifier into project code and number.
func ParseDisplayID(id string) (code string, number int, err error) {
	m := displayIDRegex.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return "", 0, fmt.Errorf("invalid bug identifier %q (want <project>-<number>, e.g. 02-007)", id)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid bug number in %q", id)
	}
	return m[1], n, nil
}

// DefaultTitle is substituted for bugs created or imported without a title.
const DefaultTitle = "Untitled Bug"

// SetDefaults applies default values for omitted fields. Call this before
// Validate so missing enum fields never reach the store empty:
//   - Title: defaults to "Untitled Bug"
//   - Severity: defaults to medium
//   - Priority: defaults to medium
//   - Status: defaults to new
//   - Resolution: defaults to todo
func (b *Bug) SetDefaults() {
	if strings.TrimSpace(b.Title) == "" {
		b.Title = DefaultTitle
	}
	if b.Severity == "" {
		b.Severity = SeverityMedium
	}
	if b.Priority == "" {
		b.Priority = PriorityMedium
	}
	if b.Status == "" {
		b.Status = StatusNew
	}
	if b.Resolution == "" {
		b.Resolution = ResolutionTodo
	}
}

// Validate checks if the bug has valid field values
func (b *Bug) Validate() error {
	if len(b.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(b.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(b.Title))
	}
	if b.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if b.Number <= 0 {
		return fmt.Errorf("bug number must be positive (got %d)", b.Number)
	}
	if !b.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", b.Severity)
	}
	if !b.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", b.Priority)
	}
	if !b.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", b.Status)
	}
	if !b.Resolution.IsValid() {
		return fmt.Errorf("invalid resolution: %s", b.Resolution)
	}
	return nil
}

// Severity grades the impact of a bug
type Severity string

// Severity constants, highest impact first
const (
	SeverityCrash      Severity = "crash" // crash or data loss, not undoable
	SeverityHigh       Severity = "high"
	SeverityMedium     Severity = "medium"
	SeverityLow        Severity = "low"
	SeveritySuggestion Severity = "suggestion"
)

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCrash, SeverityHigh, SeverityMedium, SeverityLow, SeveritySuggestion:
		return true
	}
	return false
}

// ParseSeverity maps a spreadsheet cell to a Severity. Matching is
// case-insensitive and accepts the sheet-facing labels ("Crash/Undoable").
// Unrecognized values fall back to SeverityMedium rather than failing the row.
func ParseSeverity(s string) Severity {
	switch normalizeEnum(s) {
	case "crash", "crash/undoable", "crash undoable":
		return SeverityCrash
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	case "suggestion":
		return SeveritySuggestion
	}
	return SeverityMedium
}

// Priority ranks how urgently a bug should be handled
type Priority string

// Priority constants
const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
)

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority maps a spreadsheet cell to a Priority, defaulting to
// PriorityMedium for unrecognized values.
func ParsePriority(s string) Priority {
	switch normalizeEnum(s) {
	case "highest":
		return PriorityHighest
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	}
	return PriorityMedium
}

// Status represents the current workflow state of a bug
type Status string

// Status constants
const (
	StatusNew         Status = "new"
	StatusOpen        Status = "open"
	StatusBlocked     Status = "blocked"
	StatusInProgress  Status = "in_progress"
	StatusFixed       Status = "fixed"
	StatusFixInUpdate Status = "fix_in_update" // to fix in a later update
	StatusWontFix     Status = "wont_fix"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusOpen, StatusBlocked, StatusInProgress,
		StatusFixed, StatusFixInUpdate, StatusWontFix:
		return true
	}
	return false
}

// IsResolved reports whether the status is a terminal one.
func (s Status) IsResolved() bool {
	return s == StatusFixed || s == StatusWontFix
}

// ParseStatus maps a spreadsheet cell to a Status, defaulting to StatusNew
// for unrecognized values.
func ParseStatus(s string) Status {
	switch normalizeEnum(s) {
	case "new":
		return StatusNew
	case "open":
		return StatusOpen
	case "blocked":
		return StatusBlocked
	case "in progress", "in_progress":
		return StatusInProgress
	case "fixed":
		return StatusFixed
	case "to fix in update", "fix in update", "fix_in_update":
		return StatusFixInUpdate
	case "will not fix", "wont fix", "wont_fix":
		return StatusWontFix
	}
	return StatusNew
}

// Resolution records the verification outcome of a bug
type Resolution string

// Resolution constants
const (
	ResolutionTodo       Resolution = "todo"
	ResolutionConfirmed  Resolution = "confirmed"
	ResolutionClosed     Resolution = "closed"
	ResolutionUnresolved Resolution = "unresolved"
)

// IsValid checks if the resolution value is valid
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionTodo, ResolutionConfirmed, ResolutionClosed, ResolutionUnresolved:
		return true
	}
	return false
}

// ParseResolution maps a spreadsheet cell to a Resolution, defaulting to
// ResolutionTodo for unrecognized values.
func ParseResolution(s string) Resolution {
	switch normalizeEnum(s) {
	case "to-do", "todo", "to do":
		return ResolutionTodo
	case "confirmed":
		return ResolutionConfirmed
	case "closed":
		return ResolutionClosed
	case "unresolved":
		return ResolutionUnresolved
	}
	return ResolutionTodo
}

// normalizeEnum lowercases and collapses whitespace so sheet labels like
// " To Fix in Update " match their canonical constants.
func normalizeEnum(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// AttachmentKind categorizes how an attachment is stored
type AttachmentKind string

// Attachment kind constants. Only links are stored locally; binary file
// hosting is delegated to external storage.
const (
	AttachmentLink AttachmentKind = "link"
)

// Attachment references external media linked to a bug
type Attachment struct {
	ID        int64          `json:"id"`
	BugID     string         `json:"bug_id"`
	Kind      AttachmentKind `json:"kind"`
	URL       string         `json:"url"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks if the attachment has valid field values
func (a *Attachment) Validate() error {
	if a.BugID == "" {
		return fmt.Errorf("bug_id is required")
	}
	if a.URL == "" {
		return fmt.Errorf("url is required")
	}
	if a.Kind != AttachmentLink {
		return fmt.Errorf("invalid attachment kind: %s", a.Kind)
	}
	return nil
}

// Comment represents a comment on a bug
type Comment struct {
	ID        int64     `json:"id"`
	BugID     string    `json:"bug_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// BugFilter is used to filter bug queries
type BugFilter struct {
	ProjectID string
	Status    *Status
	Severity  *Severity
	Priority  *Priority
	Limit     int
}

// Statistics provides aggregate metrics across bugs
type Statistics struct {
	TotalProjects int              `json:"total_projects"`
	TotalBugs     int              `json:"total_bugs"`
	OpenBugs      int              `json:"open_bugs"` // everything not fixed/wont_fix
	FixedBugs     int              `json:"fixed_bugs"`
	ByStatus      map[Status]int   `json:"by_status"`
	BySeverity    map[Severity]int `json:"by_severity"`
}
