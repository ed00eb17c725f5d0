package message

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/pkg/response"
	"github.com/artfolio/artfolio-api/internal/pkg/validator"
)

// Handler handles contact message HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates message handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /messages
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

	m, err := h.service.Create(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store contact message")
		response.InternalError(w)
		return
	}

	response.Created(w, ResponseFromEntity(m))
}

// List handles GET /admin/messages
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list contact messages")
		response.InternalError(w)
		return
	}

	items := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		items[i] = ResponseFromEntity(m)
	}
	response.OK(w, items)
}

