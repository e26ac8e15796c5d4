// Package storage provides shared types for bug storage.
//
// The concrete implementations live in the sqlite and memory sub-packages.
// This package holds the interface and sentinel errors referenced by both
// the backends and their consumers (cmd/bugdash, internal/importer).
package storage

import (
	"context"
	"errors"

	"github.com/bugdash/bugdash/internal/types"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotInitialized is returned when the workspace database has not been
// created yet (run `bugdash init` first).
var ErrNotInitialized = errors.New("database not initialized")

// ErrDuplicate is returned when a uniqueness constraint other than the bug
// sequence is violated (project name/code, attachment url).
var ErrDuplicate = errors.New("already exists")

// ErrSequenceConflict is returned when a bug insert loses a race for a
// sequence number: the (project_id, number) pair was claimed by a concurrent
// writer between allocation and commit. Callers should re-claim and retry.
var ErrSequenceConflict = errors.New("bug number already taken")

// Storage is the interface satisfied by *sqlite.Store and *memory.Store.
// Consumers depend on this interface rather than on the concrete type so
// that the memory backend can be substituted in tests and dry runs.
type Storage interface {
	// Projects
	CreateProject(ctx context.Context, project *types.Project) error
	GetProject(ctx context.Context, id string) (*types.Project, error)
	GetProjectByName(ctx context.Context, name string) (*types.Project, error)
	GetProjectByCode(ctx context.Context, code string) (*types.Project, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)

	// Sequence allocation. ClaimBugNumbers atomically advances the
	// per-project counter by n and returns the first claimed number.
	// The claimed range [base, base+n) is never handed to another caller.
	ClaimBugNumbers(ctx context.Context, projectID string, n int) (base int, err error)

	// Bugs. CreateBugs inserts the batch in a single transaction: on error
	// no bug from the batch is visible. Returned IDs are in input order.
	CreateBugs(ctx context.Context, bugs []*types.Bug) ([]string, error)
	GetBug(ctx context.Context, id string) (*types.Bug, error)
	GetBugByNumber(ctx context.Context, projectID string, number int) (*types.Bug, error)
	ListBugs(ctx context.Context, filter types.BugFilter) ([]*types.Bug, error)

	// Attachments. CreateAttachments is idempotent per (bug_id, url):
	// re-inserting an existing link is not an error.
	CreateAttachments(ctx context.Context, attachments []*types.Attachment) error
	GetAttachments(ctx context.Context, bugID string) ([]*types.Attachment, error)

	// Comments
	AddComment(ctx context.Context, bugID, author, text string) (*types.Comment, error)
	GetComments(ctx context.Context, bugID string) ([]*types.Comment, error)

	// Statistics
	GetStatistics(ctx context.Context, projectID string) (*types.Statistics, error)

	// Lifecycle
	Close() error
}
