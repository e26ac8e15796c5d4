package sqlite

import (
	"context"
	"fmt"

	"github.com/bugdash/bugdash/internal/types"
)

// GetStatistics returns aggregate bug counts, optionally scoped to one
// project (empty projectID means all projects).
func (s *Store) GetStatistics(ctx context.Context, projectID string) (*types.Statistics, error) {
	stats := &types.Statistics{
		ByStatus:   make(map[types.Status]int),
		BySeverity: make(map[types.Severity]int),
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&stats.TotalProjects); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	where := ""
	var args []any
	if projectID != "" {
		where = " WHERE project_id = ?"
		args = append(args, projectID)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT status, severity, COUNT(*) FROM bugs"+where+" GROUP BY status, severity", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bugs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var status types.Status
		var severity types.Severity
		var count int
		if err := rows.Scan(&status, &severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		stats.TotalBugs += count
		stats.ByStatus[status] += count
		stats.BySeverity[severity] += count
		if status.IsResolved() {
			stats.FixedBugs += count
		} else {
			stats.OpenBugs += count
		}
	}
	return stats, rows.Err()
}
