package category

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notifier is pinged after every successful catalog mutation
type Notifier interface {
	CatalogChanged(ctx context.Context)
}

// Service handles category business logic
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates category service
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create adds a new category, deriving its slug from the name
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Category, error) {
	slug := Slugify(req.Name)

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	now := time.Now()
	c := &Category{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return c, nil
}

// Update renames a category
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	slug := Slugify(req.Name)
	if slug != c.Slug {
		existing, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrSlugTaken
		}
	}

	c.Name = req.Name
	c.Slug = slug
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return c, nil
}

// Delete removes a category and reassigns referencing projects in one
// atomic operation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// List returns all categories ordered by name
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.CatalogChanged(ctx)
	}
}
