package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines category data access interface
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, c *Category) error

	// DeleteCascade removes the category and, in the same transaction,
	// drops its id from every referencing project, substituting the
	// uncategorized sentinel when a project's category set would become
	// empty. Commits or rolls back as a unit.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new category repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `SELECT * FROM categories WHERE id = $1`
	var c Category
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	query := `SELECT * FROM categories WHERE slug = $1`
	var c Category
	err := r.db.GetContext(ctx, &c, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]*Category, error) {
	query := `SELECT * FROM categories ORDER BY name`
	var categories []*Category
	err := r.db.SelectContext(ctx, &categories, query)
	return categories, err
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	query := `UPDATE categories SET name = $2, slug = $3, updated_at = $4 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.UpdatedAt)
	return err
}

func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	catID := id.String()

	rows, err := tx.QueryxContext(ctx,
		`SELECT id, categories FROM projects WHERE $1 = ANY(categories) FOR UPDATE`, catID)
	if err != nil {
		return fmt.Errorf("failed to load referencing projects: %w", err)
	}

	type reassignment struct {
		projectID  uuid.UUID
		categories pq.StringArray
	}
	var updates []reassignment

	for rows.Next() {
		var projectID uuid.UUID
		var cats pq.StringArray
		if err := rows.Scan(&projectID, &cats); err != nil {
			rows.Close()
			return err
		}

		remaining := make(pq.StringArray, 0, len(cats))
		for _, c := range cats {
			if c != catID {
				remaining = append(remaining, c)
			}
		}
		if len(remaining) == 0 {
			remaining = pq.StringArray{UncategorizedID}
		}
		updates = append(updates, reassignment{projectID: projectID, categories: remaining})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	now := time.Now()
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE projects SET categories = $2, updated_at = $3 WHERE id = $1`,
			u.projectID, u.categories, now); err != nil {
			return fmt.Errorf("failed to reassign project %s: %w", u.projectID, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return tx.Commit()
}
