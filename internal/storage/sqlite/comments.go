package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/bugdash/bugdash/internal/types"
)

// AddComment appends a comment to a bug and returns the stored record.
func (s *Store) AddComment(ctx context.Context, bugID, author, text string) (*types.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text is required")
	}
	// Verify the bug exists so the FK error doesn't surface as a raw
	// constraint message.
	if _, err := s.GetBug(ctx, bugID); err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (bug_id, author, text, created_at) VALUES (?, ?, ?, ?)",
		bugID, author, text, timeToDB(now))
	if err != nil {
		return nil, fmt.Errorf("failed to add comment to %s: %w", bugID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment id: %w", err)
	}
	return &types.Comment{ID: id, BugID: bugID, Author: author, Text: text, CreatedAt: now}, nil
}

// GetComments returns a bug's comments oldest first.
func (s *Store) GetComments(ctx context.Context, bugID string) ([]*types.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bug_id, author, text, created_at FROM comments WHERE bug_id = ? ORDER BY id", bugID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments for %s: %w", bugID, err)
	}
	defer func() { _ = rows.Close() }()

	var comments []*types.Comment
	for rows.Next() {
		var c types.Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.BugID, &c.Author, &c.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.CreatedAt = timeFromDB(createdAt)
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
