package project

import (
	"time"
)

// CreateRequest carries the form fields of POST /admin/projects
type CreateRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Year        int      `json:"year" validate:"required,gte=1900"`
	Categories  []string `json:"categories"`
}

// UpdateRequest carries the form fields of PUT /admin/projects/{id}
type UpdateRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Year        int      `json:"year" validate:"required,gte=1900"`
	Categories  []string `json:"categories"`
}

// MediaItemResponse represents a media item in API responses
type MediaItemResponse struct {
	URL         string `json:"url"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Year        int                 `json:"year"`
	Categories  []string            `json:"categories"`
	CoverImage  string              `json:"cover_image"`
	Thumbnail   string              `json:"thumbnail,omitempty"`
	Media       []MediaItemResponse `json:"media"`
	Order       int                 `json:"order"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(p *Project) *ProjectResponse {
	media := make([]MediaItemResponse, len(p.Media))
	for i, m := range p.Media {
		media[i] = MediaItemResponse{
			URL:         m.URL,
			Kind:        string(m.Kind),
			Description: m.Description,
		}
	}

	return &ProjectResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Year:        p.Year,
		Categories:  append([]string(nil), p.Categories...),
		CoverImage:  p.CoverImage,
		Thumbnail:   p.Thumbnail,
		Media:       media,
		Order:       p.EffectiveOrder(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
