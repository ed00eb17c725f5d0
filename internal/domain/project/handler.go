package project

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/pkg/response"
	"github.com/artfolio/artfolio-api/internal/pkg/storage"
	"github.com/artfolio/artfolio-api/internal/pkg/validator"
)

// Memory threshold for multipart parsing; larger parts spill to temp files
const maxMultipartMemory = 64 << 20

// Handler handles project HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates project handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /admin/projects (multipart/form-data)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, ok := h.parseProjectFields(w, r)
	if !ok {
		return
	}

	media, thumb, closeAll, ok := h.openUploads(w, r)
	if !ok {
		return
	}
	defer closeAll()

	p, err := h.service.Create(r.Context(), (*CreateRequest)(req), media, thumb)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, ResponseFromEntity(p))
}

// Update handles PUT /admin/projects/{id} (multipart/form-data)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	// Media is managed through the media endpoints, not PUT
	if len(r.MultipartForm.File["media"]) > 0 {
		response.BadRequest(w, "Media files cannot be replaced here; use the media endpoints")
		return
	}

	req, ok := h.parseProjectFields(w, r)
	if !ok {
		return
	}

	_, thumb, closeAll, ok := h.openUploads(w, r)
	if !ok {
		return
	}
	defer closeAll()

	p, err := h.service.Update(r.Context(), id, req, thumb)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, ResponseFromEntity(p))
}

// AddMedia handles POST /admin/projects/{id}/media (multipart/form-data)
func (h *Handler) AddMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	media, _, closeAll, ok := h.openUploads(w, r)
	if !ok {
		return
	}
	defer closeAll()

	if len(media) == 0 {
		response.BadRequest(w, "No media files provided")
		return
	}

	p, err := h.service.AddMedia(r.Context(), id, media)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, ResponseFromEntity(p))
}

// RemoveMedia handles DELETE /admin/projects/{id}/media/{index}
func (h *Handler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, "Invalid media index")
		return
	}

	p, err := h.service.RemoveMedia(r.Context(), id, index)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, ResponseFromEntity(p))
}

// Delete handles DELETE /admin/projects/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}

// Move handles PATCH /admin/projects/{id}/move
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	dir := Direction(r.URL.Query().Get("direction"))
	if dir != DirEarlier && dir != DirLater {
		response.BadRequest(w, "direction must be 'earlier' or 'later'")
		return
	}

	if err := h.service.Move(r.Context(), id, dir); err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// List handles GET /admin/projects
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list projects")
		response.InternalError(w)
		return
	}

	items := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		items[i] = ResponseFromEntity(p)
	}
	response.OK(w, items)
}

// parseProjectFields reads the shared multipart form fields
func (h *Handler) parseProjectFields(w http.ResponseWriter, r *http.Request) (*UpdateRequest, bool) {
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		response.BadRequest(w, "Invalid year")
		return nil, false
	}

	req := &UpdateRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Year:        year,
		Categories:  parseCategories(r.MultipartForm.Value["categories"]),
	}

	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return nil, false
	}
	return req, true
}

// openUploads opens the media files and optional thumbnail from the form.
// The returned closer must be deferred by the caller.
func (h *Handler) openUploads(w http.ResponseWriter, r *http.Request) ([]Upload, *Upload, func(), bool) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	fileHeaders := r.MultipartForm.File["media"]
	descs := r.MultipartForm.Value["media_descriptions"]

	media := make([]Upload, 0, len(fileHeaders))
	for i, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			response.BadRequest(w, "Could not read uploaded file "+fh.Filename)
			return nil, nil, nil, false
		}
		opened = append(opened, f)

		desc := ""
		if i < len(descs) {
			desc = descs[i]
		}
		media = append(media, Upload{Filename: fh.Filename, Description: desc, Content: f})
	}

	var thumb *Upload
	if ths := r.MultipartForm.File["thumbnail"]; len(ths) > 0 {
		f, err := ths[0].Open()
		if err != nil {
			closeAll()
			response.BadRequest(w, "Could not read thumbnail file")
			return nil, nil, nil, false
		}
		opened = append(opened, f)
		thumb = &Upload{Filename: ths[0].Filename, Content: f}
	}

	return media, thumb, closeAll, true
}

// parseCategories accepts repeated form values and comma-separated lists
func parseCategories(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// writeServiceError maps service errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		response.NotFound(w, "Project not found")
	case errors.Is(err, ErrNoCategories),
		errors.Is(err, ErrInvalidYear),
		errors.Is(err, ErrMediaLimit),
		errors.Is(err, ErrMediaIndex),
		errors.Is(err, ErrThumbnailNotImage),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidMimeType),
		errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, err.Error())
	default:
		log.Error().Err(err).Msg("Project operation failed")
		response.InternalError(w)
	}
}
