package message

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository defines message data access interface
type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context) ([]*Message, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates message repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Email, m.Message, m.CreatedAt)
	return err
}

func (r *repository) List(ctx context.Context) ([]*Message, error) {
	var messages []*Message
	query := `SELECT * FROM messages ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, err
	}
	return messages, nil
}
