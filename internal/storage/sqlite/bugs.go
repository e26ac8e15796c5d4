package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
)

// ClaimBugNumbers atomically advances the per-project counter by n and
// returns the first claimed number. The upsert runs as a single statement,
// so concurrent claimers are serialized by SQLite's write lock and a claimed
// range is never reissued.
func (s *Store) ClaimBugNumbers(ctx context.Context, projectID string, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("claim size must be positive (got %d)", n)
	}

	var next int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO bug_sequences (project_id, next) VALUES (?, ? + 1)
		ON CONFLICT(project_id) DO UPDATE SET next = next + ?
		RETURNING next`,
		projectID, n, n).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to claim %d bug numbers for project %s: %w", n, projectID, translateErr(err))
	}
	return next - n, nil
}

// CreateBugs inserts the batch in a single transaction. On any error the
// transaction is rolled back and no bug from the batch is visible. Returned
// IDs are in input order. A race on (project_id, number) surfaces as
// storage.ErrSequenceConflict.
func (s *Store) CreateBugs(ctx context.Context, bugs []*types.Bug) ([]string, error) {
	if len(bugs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bugs (id, project_id, number, title, description,
			steps_to_reproduce, expected_result, actual_result,
			severity, priority, status, resolution, reporter,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	ids := make([]string, 0, len(bugs))
	for i, bug := range bugs {
		bug.SetDefaults()
		if err := bug.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bug at row %d: %w", i+1, err)
		}
		if bug.ID == "" {
			bug.ID = uuid.NewString()
		}
		if bug.CreatedAt.IsZero() {
			bug.CreatedAt = now
		}
		bug.UpdatedAt = now

		_, err := stmt.ExecContext(ctx,
			bug.ID, bug.ProjectID, bug.Number, bug.Title, bug.Description,
			bug.StepsToReproduce, bug.ExpectedResult, bug.ActualResult,
			string(bug.Severity), string(bug.Priority), string(bug.Status),
			string(bug.Resolution), bug.Reporter,
			timeToDB(bug.CreatedAt), timeToDB(bug.UpdatedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert bug %d of %d: %w", i+1, len(bugs), translateErr(err))
		}
		ids = append(ids, bug.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bug batch: %w", err)
	}
	committed = true
	return ids, nil
}

const bugColumns = `id, project_id, number, title, description,
	steps_to_reproduce, expected_result, actual_result,
	severity, priority, status, resolution, reporter, created_at, updated_at`

func scanBug(scan func(...any) error) (*types.Bug, error) {
	var b types.Bug
	var createdAt, updatedAt string
	err := scan(&b.ID, &b.ProjectID, &b.Number, &b.Title, &b.Description,
		&b.StepsToReproduce, &b.ExpectedResult, &b.ActualResult,
		&b.Severity, &b.Priority, &b.Status, &b.Resolution, &b.Reporter,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = timeFromDB(createdAt)
	b.UpdatedAt = timeFromDB(updatedAt)
	return &b, nil
}

// GetBug fetches a bug by its persistent ID.
func (s *Store) GetBug(ctx context.Context, id string) (*types.Bug, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bugColumns+" FROM bugs WHERE id = ?", id)
	b, err := scanBug(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bug %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bug %s: %w", id, err)
	}
	return b, nil
}

// GetBugByNumber fetches a bug by its per-project sequence number.
func (s *Store) GetBugByNumber(ctx context.Context, projectID string, number int) (*types.Bug, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bugColumns+" FROM bugs WHERE project_id = ? AND number = ?", projectID, number)
	b, err := scanBug(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bug %d in project %s: %w", number, projectID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bug %d in project %s: %w", number, projectID, err)
	}
	return b, nil
}

// ListBugs returns bugs matching the filter, ordered by project and number.
func (s *Store) ListBugs(ctx context.Context, filter types.BugFilter) ([]*types.Bug, error) {
	var conds []string
	var args []any
	if filter.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Severity != nil {
		conds = append(conds, "severity = ?")
		args = append(args, string(*filter.Severity))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, string(*filter.Priority))
	}

	query := "SELECT " + bugColumns + " FROM bugs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY project_id, number"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bugs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bugs []*types.Bug
	for rows.Next() {
		b, err := scanBug(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bug: %w", err)
		}
		bugs = append(bugs, b)
	}
	return bugs, rows.Err()
}
