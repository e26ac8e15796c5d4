package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
)

// CreateProject inserts a new project. The ID is assigned here if empty.
func (s *Store) CreateProject(ctx context.Context, project *types.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, code, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID, project.Code, project.Name, project.Description,
		timeToDB(project.CreatedAt), timeToDB(project.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create project: %w", translateErr(err))
	}
	return nil
}

const projectColumns = "id, code, name, description, created_at, updated_at"

func scanProject(row *sql.Row) (*types.Project, error) {
	var p types.Project
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = timeFromDB(createdAt)
	p.UpdatedAt = timeFromDB(updatedAt)
	return &p, nil
}

// GetProject fetches a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

// GetProjectByName fetches a project by its unique name.
func (s *Store) GetProjectByName(ctx context.Context, name string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE name = ?", name)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %q: %w", name, err)
	}
	return p, nil
}

// GetProjectByCode fetches a project by its display code.
func (s *Store) GetProjectByCode(ctx context.Context, code string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE code = ?", code)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project with code %q: %w", code, err)
	}
	return p, nil
}

// ListProjects returns all projects ordered by code.
func (s *Store) ListProjects(ctx context.Context) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*types.Project
	for rows.Next() {
		var p types.Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.CreatedAt = timeFromDB(createdAt)
		p.UpdatedAt = timeFromDB(updatedAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}
