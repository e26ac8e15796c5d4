// Package memory implements the storage interface with in-process maps.
//
// It backs unit tests and `import --dry-run`, where writes must never touch
// the real database. Error-injection fields let tests simulate store
// failures at specific pipeline stages.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
)

// Verify Store implements storage.Storage at compile time
var _ storage.Storage = (*Store)(nil)

// Store is an in-memory Storage implementation.
type Store struct {
	mu          sync.Mutex
	projects    map[string]*types.Project
	bugs        map[string]*types.Bug
	attachments map[string][]*types.Attachment // keyed by bug ID
	comments    map[string][]*types.Comment
	sequences   map[string]int // next unclaimed number per project
	nextRowID   int64

	// Error injection for tests. When set, the corresponding method fails
	// with the given error before mutating anything.
	ClaimErr             error
	CreateBugsErr        error
	CreateAttachmentsErr error
	GetAttachmentsErr    error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		projects:    make(map[string]*types.Project),
		bugs:        make(map[string]*types.Bug),
		attachments: make(map[string][]*types.Attachment),
		comments:    make(map[string][]*types.Comment),
		sequences:   make(map[string]int),
	}
}

// CreateProject inserts a new project.
func (s *Store) CreateProject(_ context.Context, project *types.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.projects {
		if p.Name == project.Name || p.Code == project.Code {
			return fmt.Errorf("project %s/%s: %w", project.Code, project.Name, storage.ErrDuplicate)
		}
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	cp := *project
	s.projects[project.ID] = &cp
	return nil
}

// GetProject fetches a project by ID.
func (s *Store) GetProject(_ context.Context, id string) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, storage.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// GetProjectByName fetches a project by its unique name.
func (s *Store) GetProjectByName(_ context.Context, name string) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", name, storage.ErrNotFound)
}

// GetProjectByCode fetches a project by its display code.
func (s *Store) GetProjectByCode(_ context.Context, code string) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("project code %q: %w", code, storage.ErrNotFound)
}

// ListProjects returns all projects ordered by code.
func (s *Store) ListProjects(_ context.Context) ([]*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var projects []*types.Project
	for _, p := range s.projects {
		cp := *p
		projects = append(projects, &cp)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Code < projects[j].Code })
	return projects, nil
}

// ClaimBugNumbers atomically advances the per-project counter.
func (s *Store) ClaimBugNumbers(_ context.Context, projectID string, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("claim size must be positive (got %d)", n)
	}
	if s.ClaimErr != nil {
		return 0, s.ClaimErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.sequences[projectID]
	if !ok {
		next = 1
	}
	s.sequences[projectID] = next + n
	return next, nil
}

// CreateBugs inserts the batch atomically: on any error nothing is stored.
func (s *Store) CreateBugs(_ context.Context, bugs []*types.Bug) ([]string, error) {
	if s.CreateBugsErr != nil {
		return nil, s.CreateBugsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching state
	taken := make(map[string]map[int]bool)
	for _, b := range s.bugs {
		if taken[b.ProjectID] == nil {
			taken[b.ProjectID] = make(map[int]bool)
		}
		taken[b.ProjectID][b.Number] = true
	}
	now := time.Now()
	staged := make([]*types.Bug, 0, len(bugs))
	ids := make([]string, 0, len(bugs))
	for i, bug := range bugs {
		cp := *bug
		cp.SetDefaults()
		if err := cp.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bug at row %d: %w", i+1, err)
		}
		if taken[cp.ProjectID][cp.Number] {
			return nil, fmt.Errorf("bug %d in project %s: %w", cp.Number, cp.ProjectID, storage.ErrSequenceConflict)
		}
		if taken[cp.ProjectID] == nil {
			taken[cp.ProjectID] = make(map[int]bool)
		}
		taken[cp.ProjectID][cp.Number] = true
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = now
		}
		cp.UpdatedAt = now
		staged = append(staged, &cp)
		ids = append(ids, cp.ID)
	}

	for _, b := range staged {
		s.bugs[b.ID] = b
	}
	return ids, nil
}

// GetBug fetches a bug by its persistent ID.
func (s *Store) GetBug(_ context.Context, id string) (*types.Bug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bugs[id]
	if !ok {
		return nil, fmt.Errorf("bug %s: %w", id, storage.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

// GetBugByNumber fetches a bug by its per-project sequence number.
func (s *Store) GetBugByNumber(_ context.Context, projectID string, number int) (*types.Bug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bugs {
		if b.ProjectID == projectID && b.Number == number {
			cp := *b
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("bug %d in project %s: %w", number, projectID, storage.ErrNotFound)
}

// ListBugs returns bugs matching the filter, ordered by project and number.
func (s *Store) ListBugs(_ context.Context, filter types.BugFilter) ([]*types.Bug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bugs []*types.Bug
	for _, b := range s.bugs {
		if filter.ProjectID != "" && b.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Severity != nil && b.Severity != *filter.Severity {
			continue
		}
		if filter.Priority != nil && b.Priority != *filter.Priority {
			continue
		}
		cp := *b
		bugs = append(bugs, &cp)
	}
	sort.Slice(bugs, func(i, j int) bool {
		if bugs[i].ProjectID != bugs[j].ProjectID {
			return bugs[i].ProjectID < bugs[j].ProjectID
		}
		return bugs[i].Number < bugs[j].Number
	})
	if filter.Limit > 0 && len(bugs) > filter.Limit {
		bugs = bugs[:filter.Limit]
	}
	return bugs, nil
}

// CreateAttachments inserts the batch, skipping (bug_id, url) pairs that
// already exist.
func (s *Store) CreateAttachments(_ context.Context, attachments []*types.Attachment) error {
	if s.CreateAttachmentsErr != nil {
		return s.CreateAttachmentsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i, a := range attachments {
		cp := *a
		if cp.Kind == "" {
			cp.Kind = types.AttachmentLink
		}
		if err := cp.Validate(); err != nil {
			return fmt.Errorf("invalid attachment at row %d: %w", i+1, err)
		}
		exists := false
		for _, have := range s.attachments[cp.BugID] {
			if have.URL == cp.URL {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		s.nextRowID++
		cp.ID = s.nextRowID
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = now
		}
		s.attachments[cp.BugID] = append(s.attachments[cp.BugID], &cp)
	}
	return nil
}

// GetAttachments returns a bug's attachments in insertion order.
func (s *Store) GetAttachments(_ context.Context, bugID string) ([]*types.Attachment, error) {
	if s.GetAttachmentsErr != nil {
		return nil, s.GetAttachmentsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.Attachment
	for _, a := range s.attachments[bugID] {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// AddComment appends a comment to a bug.
func (s *Store) AddComment(_ context.Context, bugID, author, text string) (*types.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bugs[bugID]; !ok {
		return nil, fmt.Errorf("bug %s: %w", bugID, storage.ErrNotFound)
	}
	s.nextRowID++
	c := &types.Comment{ID: s.nextRowID, BugID: bugID, Author: author, Text: text, CreatedAt: time.Now()}
	s.comments[bugID] = append(s.comments[bugID], c)
	cp := *c
	return &cp, nil
}

// GetComments returns a bug's comments oldest first.
func (s *Store) GetComments(_ context.Context, bugID string) ([]*types.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.Comment
	for _, c := range s.comments[bugID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// GetStatistics returns aggregate bug counts.
func (s *Store) GetStatistics(_ context.Context, projectID string) (*types.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &types.Statistics{
		TotalProjects: len(s.projects),
		ByStatus:      make(map[types.Status]int),
		BySeverity:    make(map[types.Severity]int),
	}
	for _, b := range s.bugs {
		if projectID != "" && b.ProjectID != projectID {
			continue
		}
		stats.TotalBugs++
		stats.ByStatus[b.Status]++
		stats.BySeverity[b.Severity]++
		if b.Status.IsResolved() {
			stats.FixedBugs++
		} else {
			stats.OpenBugs++
		}
	}
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
