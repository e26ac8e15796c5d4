package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/bugdash/bugdash/internal/types"
)

// CreateAttachments inserts the batch in a single transaction. Inserts are
// idempotent per (bug_id, url): links that already exist are skipped, so a
// re-attach run after a partial import failure does not error or duplicate.
func (s *Store) CreateAttachments(ctx context.Context, attachments []*types.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO attachments (bug_id, kind, url, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(bug_id, url) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for i, a := range attachments {
		if a.Kind == "" {
			a.Kind = types.AttachmentLink
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid attachment at row %d: %w", i+1, err)
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, a.BugID, string(a.Kind), a.URL, timeToDB(a.CreatedAt)); err != nil {
			return fmt.Errorf("failed to insert attachment %d of %d: %w", i+1, len(attachments), translateErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attachment batch: %w", err)
	}
	committed = true
	return nil
}

// GetAttachments returns a bug's attachments in insertion order.
func (s *Store) GetAttachments(ctx context.Context, bugID string) ([]*types.Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bug_id, kind, url, created_at FROM attachments WHERE bug_id = ? ORDER BY id", bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments for %s: %w", bugID, err)
	}
	defer func() { _ = rows.Close() }()

	var attachments []*types.Attachment
	for rows.Next() {
		var a types.Attachment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.BugID, &a.Kind, &a.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		a.CreatedAt = timeFromDB(createdAt)
		attachments = append(attachments, &a)
	}
	return attachments, rows.Err()
}
