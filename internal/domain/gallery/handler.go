package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/domain/catalog"
	"github.com/artfolio/artfolio-api/internal/domain/project"
	"github.com/artfolio/artfolio-api/internal/pkg/response"
)

// Handler serves the public gallery
type Handler struct {
	reader *catalog.Reader
}

// NewHandler creates gallery handler
func NewHandler(reader *catalog.Reader) *Handler {
	return &Handler{reader: reader}
}

// Routes returns the public gallery router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	return r
}

// List handles GET /gallery?category=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.reader.Load(r.Context())
	if snap.Err != nil {
		log.Error().Err(snap.Err).Msg("Failed to load catalog")
		response.ServiceUnavailable(w, "Gallery temporarily unavailable")
		return
	}

	filtered := SortByOrder(Filter(snap.Projects, r.URL.Query().Get("category")))

	out := make([]*project.ProjectResponse, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, project.ResponseFromEntity(p))
	}
	response.OK(w, out)
}

// GetByID handles GET /gallery/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	snap := h.reader.Load(r.Context())
	if snap.Err != nil {
		log.Error().Err(snap.Err).Msg("Failed to load catalog")
		response.ServiceUnavailable(w, "Gallery temporarily unavailable")
		return
	}

	for _, p := range snap.Projects {
		if p.ID == id {
			response.OK(w, project.ResponseFromEntity(p))
			return
		}
	}
	response.NotFound(w, "Project not found")
}
