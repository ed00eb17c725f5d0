package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/pkg/response"
	"github.com/artfolio/artfolio-api/internal/pkg/validator"
)

// Handler handles category HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates category handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /categories
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		response.InternalError(w)
		return
	}

	items := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = ResponseFromEntity(c)
	}
	response.OK(w, items)
}

// Create handles POST /admin/categories
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrSlugTaken:
			response.Conflict(w, "A category with this name already exists")
		default:
			log.Error().Err(err).Msg("Failed to create category")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ResponseFromEntity(c))
}

// Update handles PUT /admin/categories/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrCategoryNotFound:
			response.NotFound(w, "Category not found")
		case ErrSlugTaken:
			response.Conflict(w, "A category with this name already exists")
		default:
			log.Error().Err(err).Msg("Failed to update category")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(c))
}

// Delete handles DELETE /admin/categories/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch err {
		case ErrCategoryNotFound:
			response.NotFound(w, "Category not found")
		default:
			log.Error().Err(err).Msg("Failed to delete category")
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
