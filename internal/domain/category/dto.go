package category

import (
	"time"
)

// CreateRequest for POST /admin/categories
type CreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateRequest for PUT /admin/categories/{id}
type UpdateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(c *Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
