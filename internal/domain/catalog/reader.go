package catalog

import (
	"context"

	"github.com/artfolio/artfolio-api/internal/domain/category"
	"github.com/artfolio/artfolio-api/internal/domain/project"
)

// Snapshot is one consistent read of the public catalog. A failed load is
// delivered as a snapshot with Err set, never as a panic or a dropped
// subscription.
type Snapshot struct {
	Projects   []*project.Project
	Categories []*category.Category
	Err        error
}

type projectLister interface {
	List(ctx context.Context) ([]*project.Project, error)
}

type categoryLister interface {
	List(ctx context.Context) ([]*category.Category, error)
}

// Reader assembles catalog snapshots from the two collections
type Reader struct {
	projects   projectLister
	categories categoryLister
}

// NewReader creates catalog reader
func NewReader(projects projectLister, categories categoryLister) *Reader {
	return &Reader{projects: projects, categories: categories}
}

// Load reads both collections. Projects arrive in sort order with missing
// orders last; categories arrive ordered by name.
func (r *Reader) Load(ctx context.Context) Snapshot {
	projects, err := r.projects.List(ctx)
	if err != nil {
		return Snapshot{Err: err}
	}

	categories, err := r.categories.List(ctx)
	if err != nil {
		return Snapshot{Err: err}
	}

	return Snapshot{Projects: projects, Categories: categories}
}
