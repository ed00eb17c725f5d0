package message

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles contact message logic
type Service struct {
	repo Repository
}

// NewService creates message service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a contact form submission
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Message, error) {
	m := &Message{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns every message, newest first. Admin only.
func (s *Service) List(ctx context.Context) ([]*Message, error) {
	return s.repo.List(ctx)
}
