package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines project data access interface
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	// List returns every project ordered by sort position ascending,
	// order-less projects last, ties broken by id.
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	// MaxSortOrder returns the highest explicit sort position, 0 when none
	MaxSortOrder(ctx context.Context) (int, error)

	// SwapSortOrder exchanges the sort positions of two projects in a
	// single transaction; both updates commit or neither does.
	SwapSortOrder(ctx context.Context, a, b uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new project repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (id, title, description, year, categories, cover_image, thumbnail, media, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Year,
		p.Categories,
		p.CoverImage,
		p.Thumbnail,
		p.Media,
		p.SortOrder,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `SELECT * FROM projects WHERE id = $1`
	var p Project
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]*Project, error) {
	query := `SELECT * FROM projects ORDER BY sort_order ASC NULLS LAST, id ASC`
	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query)
	return projects, err
}

func (r *repository) Update(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects
		SET title = $2, description = $3, year = $4, categories = $5,
		    cover_image = $6, thumbnail = $7, media = $8, updated_at = $9
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Year,
		p.Categories,
		p.CoverImage,
		p.Thumbnail,
		p.Media,
		p.UpdatedAt,
	)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) MaxSortOrder(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM projects`
	var max int
	err := r.db.GetContext(ctx, &max, query)
	return max, err
}

func (r *repository) SwapSortOrder(ctx context.Context, a, b uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var orderA, orderB sql.NullInt64
	if err := tx.GetContext(ctx, &orderA,
		`SELECT sort_order FROM projects WHERE id = $1 FOR UPDATE`, a); err != nil {
		return fmt.Errorf("failed to lock project %s: %w", a, err)
	}
	if err := tx.GetContext(ctx, &orderB,
		`SELECT sort_order FROM projects WHERE id = $1 FOR UPDATE`, b); err != nil {
		return fmt.Errorf("failed to lock project %s: %w", b, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET sort_order = $2 WHERE id = $1`, a, orderB); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET sort_order = $2 WHERE id = $1`, b, orderA); err != nil {
		return err
	}

	return tx.Commit()
}
