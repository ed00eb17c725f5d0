package project

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/pkg/storage"
)

// Direction for Move
type Direction string

const (
	DirEarlier Direction = "earlier"
	DirLater   Direction = "later"
)

const minYear = 1900

// Upload is a media file handed to the service by the handler
type Upload struct {
	Filename    string
	Description string
	Content     io.Reader
}

// Notifier is pinged after every successful catalog mutation
type Notifier interface {
	CatalogChanged(ctx context.Context)
}

// Thumbnailer produces a resized web thumbnail from image bytes
type Thumbnailer interface {
	Thumbnail(data []byte) ([]byte, string, error)
}

// Service handles project business logic
type Service struct {
	repo     Repository
	store    storage.Storage
	thumbs   Thumbnailer
	notifier Notifier
}

// NewService creates project service
func NewService(repo Repository, store storage.Storage, thumbs Thumbnailer, notifier Notifier) *Service {
	return &Service{repo: repo, store: store, thumbs: thumbs, notifier: notifier}
}

// Create validates the request, uploads every media file, then writes the
// project record. The record is written only after all uploads succeed; a
// failed upload aborts the create and already-uploaded files stay orphaned
// in the blob store (logged, not compensated).
func (s *Service) Create(ctx context.Context, req *CreateRequest, media []Upload, thumb *Upload) (*Project, error) {
	// Rejected before any network call
	if len(req.Categories) == 0 {
		return nil, ErrNoCategories
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}
	if len(media) > MaxMediaItems {
		return nil, fmt.Errorf("%w: at most %d media items", ErrMediaLimit, MaxMediaItems)
	}

	var coverURL, thumbURL string

	if thumb != nil {
		url, err := s.uploadThumbnail(ctx, thumb)
		if err != nil {
			return nil, err
		}
		thumbURL = url
		coverURL = url
	}

	items, genThumb, err := s.uploadMedia(ctx, media, coverURL == "")
	if err != nil {
		return nil, err
	}
	if coverURL == "" {
		coverURL = firstCover(items)
	}
	if thumbURL == "" {
		thumbURL = genThumb
	}

	// Next position: read current max, add one. Not compare-and-swap;
	// two concurrent creates can land on the same value.
	max, err := s.repo.MaxSortOrder(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Project{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		Categories:  req.Categories,
		CoverImage:  coverURL,
		Thumbnail:   thumbURL,
		Media:       items,
		SortOrder:   sql.NullInt64{Int64: int64(max + 1), Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Warn().Err(err).Int("uploaded_files", len(items)).
			Msg("Project record write failed after uploads; files remain orphaned")
		return nil, err
	}

	s.notify(ctx)
	return p, nil
}

// Update edits a project's fields. Media is managed via AddMedia/RemoveMedia.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest, thumb *Upload) (*Project, error) {
	if len(req.Categories) == 0 {
		return nil, ErrNoCategories
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	if thumb != nil {
		url, err := s.uploadThumbnail(ctx, thumb)
		if err != nil {
			return nil, err
		}
		p.Thumbnail = url
		p.CoverImage = url
	}

	p.Title = req.Title
	p.Description = req.Description
	p.Year = req.Year
	p.Categories = req.Categories
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return p, nil
}

// AddMedia appends uploads to a project, enforcing the media cap before any
// upload begins. Per-file validation still happens inside the upload loop,
// so earlier files in the batch may be stored before a later one is rejected.
func (s *Service) AddMedia(ctx context.Context, id uuid.UUID, media []Upload) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	if len(p.Media)+len(media) > MaxMediaItems {
		return nil, fmt.Errorf("%w: project already has %d of %d media items",
			ErrMediaLimit, len(p.Media), MaxMediaItems)
	}

	items, genThumb, err := s.uploadMedia(ctx, media, p.CoverImage == "")
	if err != nil {
		return nil, err
	}

	p.Media = append(p.Media, items...)
	if p.CoverImage == "" {
		p.CoverImage = firstCover(items)
	}
	if p.Thumbnail == "" {
		p.Thumbnail = genThumb
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return p, nil
}

// RemoveMedia deletes the media item at index. The blob delete is
// best-effort; the record update proceeds regardless.
func (s *Service) RemoveMedia(ctx context.Context, id uuid.UUID, index int) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	if index < 0 || index >= len(p.Media) {
		return nil, ErrMediaIndex
	}

	removed := p.Media[index]
	s.deleteBlob(ctx, removed.URL)

	p.Media = append(p.Media[:index], p.Media[index+1:]...)
	if p.CoverImage == removed.URL {
		p.CoverImage = firstCover(p.Media)
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.notify(ctx)
	return p, nil
}

// Delete removes a project. Every referenced blob is deleted best-effort
// (failures logged, never aborting), then the record is deleted
// unconditionally.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProjectNotFound
	}

	seen := map[string]bool{}
	for _, url := range append([]string{p.CoverImage, p.Thumbnail}, mediaURLs(p.Media)...) {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		s.deleteBlob(ctx, url)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx)
	return nil
}

// Move swaps a project's sort position with its neighbor in the given
// direction. Already at the boundary is a no-op.
func (s *Service) Move(ctx context.Context, id uuid.UUID, dir Direction) error {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, p := range projects {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrProjectNotFound
	}

	j := idx + 1
	if dir == DirEarlier {
		j = idx - 1
	}
	if j < 0 || j >= len(projects) {
		return nil // boundary
	}

	if err := s.repo.SwapSortOrder(ctx, projects[idx].ID, projects[j].ID); err != nil {
		return err
	}

	s.notify(ctx)
	return nil
}

// GetByID returns a single project
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// List returns every project in sort order
func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

// uploadMedia validates and uploads each file in order. Validation happens
// per file inside the loop: a rejection aborts the batch but leaves earlier
// uploads in the store. When wantThumb is set, a web thumbnail is generated
// from the first image.
func (s *Service) uploadMedia(ctx context.Context, media []Upload, wantThumb bool) (MediaList, string, error) {
	items := make(MediaList, 0, len(media))
	var genThumb string

	for _, up := range media {
		data, mime, kind, err := storage.ValidateUpload(up.Content, up.Filename)
		if err != nil {
			if len(items) > 0 {
				log.Warn().Int("uploaded_files", len(items)).Str("rejected", up.Filename).
					Msg("Batch aborted mid-upload; earlier files remain in the blob store")
			}
			return nil, "", err
		}

		key := storage.BuildKey(up.Filename)
		if err := s.store.Put(ctx, key, bytes.NewReader(data), mime); err != nil {
			if len(items) > 0 {
				log.Warn().Int("uploaded_files", len(items)).Str("failed", up.Filename).
					Msg("Batch aborted mid-upload; earlier files remain in the blob store")
			}
			return nil, "", fmt.Errorf("failed to upload %s: %w", up.Filename, err)
		}

		items = append(items, MediaItem{
			URL:         s.store.GetURL(key),
			Kind:        MediaKind(kind),
			Description: up.Description,
		})

		if wantThumb && genThumb == "" && kind == "image" && s.thumbs != nil {
			genThumb = s.generateThumbnail(ctx, key, data)
		}
	}

	return items, genThumb, nil
}

func (s *Service) uploadThumbnail(ctx context.Context, thumb *Upload) (string, error) {
	data, mime, kind, err := storage.ValidateUpload(thumb.Content, thumb.Filename)
	if err != nil {
		return "", err
	}
	if kind != string(MediaKindImage) {
		return "", fmt.Errorf("%s: %w", thumb.Filename, ErrThumbnailNotImage)
	}

	key := storage.BuildKey(thumb.Filename)
	if err := s.store.Put(ctx, key, bytes.NewReader(data), mime); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", thumb.Filename, err)
	}
	return s.store.GetURL(key), nil
}

// generateThumbnail produces and stores a resized thumbnail next to the
// original. Failures are logged, never fatal; the original stands in.
func (s *Service) generateThumbnail(ctx context.Context, originalKey string, data []byte) string {
	resized, contentType, err := s.thumbs.Thumbnail(data)
	if err != nil {
		log.Warn().Err(err).Str("key", originalKey).Msg("Thumbnail generation failed")
		return ""
	}

	thumbKey := thumbKeyFor(originalKey, contentType)
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(resized), contentType); err != nil {
		log.Warn().Err(err).Str("key", thumbKey).Msg("Thumbnail upload failed")
		return ""
	}
	return s.store.GetURL(thumbKey)
}

// deleteBlob removes the object behind url, tolerating and logging failures
func (s *Service) deleteBlob(ctx context.Context, url string) {
	key := s.store.KeyFromURL(url)
	if key == "" {
		log.Warn().Str("url", url).Msg("Cannot map URL to storage key; skipping delete")
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Blob delete failed; continuing")
	}
}

func (s *Service) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.CatalogChanged(ctx)
	}
}

func validateYear(year int) error {
	if year < minYear || year > time.Now().Year()+1 {
		return ErrInvalidYear
	}
	return nil
}

// firstCover returns the first media item's URL regardless of kind
func firstCover(items MediaList) string {
	if len(items) > 0 {
		return items[0].URL
	}
	return ""
}

func mediaURLs(items MediaList) []string {
	urls := make([]string, len(items))
	for i, m := range items {
		urls[i] = m.URL
	}
	return urls
}

func thumbKeyFor(originalKey, contentType string) string {
	ext := storage.GetExtensionForMime(contentType)
	base := originalKey
	if i := strings.LastIndex(base, "."); i > strings.LastIndex(base, "/") {
		base = base[:i]
	}
	return base + "_thumb" + ext
}
