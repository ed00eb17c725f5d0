package project

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/artfolio/artfolio-api/internal/pkg/storage"
)

// minimal PNG header, enough for content-type sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

type repoStub struct {
	projects []*Project
	created  *Project
	updated  *Project
	deleted  []uuid.UUID
	maxOrder int
	maxCalls int
	swaps    [][2]uuid.UUID
}

func (r *repoStub) Create(_ context.Context, p *Project) error {
	r.created = p
	return nil
}
func (r *repoStub) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (r *repoStub) List(context.Context) ([]*Project, error) { return r.projects, nil }
func (r *repoStub) Update(_ context.Context, p *Project) error {
	r.updated = p
	return nil
}
func (r *repoStub) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}
func (r *repoStub) MaxSortOrder(context.Context) (int, error) {
	r.maxCalls++
	return r.maxOrder, nil
}
func (r *repoStub) SwapSortOrder(_ context.Context, a, b uuid.UUID) error {
	r.swaps = append(r.swaps, [2]uuid.UUID{a, b})
	return nil
}

type storeStub struct {
	puts      []string
	deletes   []string
	deleteErr error
	failPut   string // substring of key that makes Put fail
}

func (s *storeStub) Put(_ context.Context, key string, _ io.Reader, _ string) error {
	if s.failPut != "" && strings.Contains(key, s.failPut) {
		return fmt.Errorf("put %s: connection reset", key)
	}
	s.puts = append(s.puts, key)
	return nil
}
func (s *storeStub) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.deleteErr
}
func (s *storeStub) GetURL(key string) string { return "https://cdn.test/" + key }
func (s *storeStub) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, "https://cdn.test/")
}

type thumbsStub struct{}

func (thumbsStub) Thumbnail([]byte) ([]byte, string, error) {
	return []byte("thumb"), "image/jpeg", nil
}

type notifierStub struct{ calls int }

func (n *notifierStub) CatalogChanged(context.Context) { n.calls++ }

func newTestService(repo *repoStub, store *storeStub) (*Service, *notifierStub) {
	n := &notifierStub{}
	return NewService(repo, store, thumbsStub{}, n), n
}

func pngUpload(name string) Upload {
	return Upload{Filename: name, Content: bytes.NewReader(pngHeader)}
}

func validCreate() *CreateRequest {
	return &CreateRequest{Title: "Brand Film", Year: 2024, Categories: []string{"cat-1"}}
}

func orderedProject(title string, order int) *Project {
	return &Project{
		ID:        uuid.New(),
		Title:     title,
		SortOrder: sql.NullInt64{Int64: int64(order), Valid: true},
	}
}

func TestCreateRejectsEmptyCategoriesBeforeAnyNetworkCall(t *testing.T) {
	repo := &repoStub{}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	req := validCreate()
	req.Categories = nil

	_, err := svc.Create(context.Background(), req, []Upload{pngUpload("a.png")}, nil)
	if err != ErrNoCategories {
		t.Fatalf("expected ErrNoCategories, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("no upload should happen, got %d", len(store.puts))
	}
	if repo.maxCalls != 0 || repo.created != nil {
		t.Fatalf("no repository call should happen")
	}
}

func TestCreateRejectsImplausibleYear(t *testing.T) {
	svc, _ := newTestService(&repoStub{}, &storeStub{})

	for _, year := range []int{1899, 3000} {
		req := validCreate()
		req.Year = year
		if _, err := svc.Create(context.Background(), req, nil, nil); err != ErrInvalidYear {
			t.Fatalf("year %d: expected ErrInvalidYear, got %v", year, err)
		}
	}
}

func TestCreateAssignsNextOrderAndCover(t *testing.T) {
	repo := &repoStub{maxOrder: 7}
	store := &storeStub{}
	svc, notifier := newTestService(repo, store)

	p, err := svc.Create(context.Background(), validCreate(), []Upload{pngUpload("hero.png")}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if !p.SortOrder.Valid || p.SortOrder.Int64 != 8 {
		t.Fatalf("expected sort order 8, got %+v", p.SortOrder)
	}
	if len(p.Media) != 1 || p.Media[0].Kind != MediaKindImage {
		t.Fatalf("expected one image media item, got %+v", p.Media)
	}
	if p.CoverImage != p.Media[0].URL {
		t.Fatalf("first uploaded media item should become cover")
	}
	if p.Thumbnail == "" {
		t.Fatalf("expected generated thumbnail for image cover")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one catalog notification, got %d", notifier.calls)
	}
}

func TestCreateVideoFirstBecomesCover(t *testing.T) {
	repo := &repoStub{}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	// webm magic bytes
	webm := []byte{0x1a, 0x45, 0xdf, 0xa3, 0, 0, 0, 0, 0, 0, 0, 0}
	media := []Upload{
		{Filename: "intro.webm", Content: bytes.NewReader(webm)},
		pngUpload("still.png"),
	}

	p, err := svc.Create(context.Background(), validCreate(), media, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(p.CoverImage, "intro.webm") {
		t.Fatalf("first uploaded media item should become cover even when it is a video, got %s", p.CoverImage)
	}
	// the generated web thumbnail still comes from the first image
	if !strings.Contains(p.Thumbnail, "still") {
		t.Fatalf("thumbnail should be generated from the first image, got %s", p.Thumbnail)
	}
}

func TestCreateExplicitThumbnailWins(t *testing.T) {
	repo := &repoStub{}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	thumb := pngUpload("cover.png")
	p, err := svc.Create(context.Background(), validCreate(), []Upload{pngUpload("a.png")}, &thumb)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(p.Thumbnail, "cover.png") {
		t.Fatalf("explicit thumbnail should be used, got %s", p.Thumbnail)
	}
	if p.CoverImage != p.Thumbnail {
		t.Fatalf("explicit thumbnail should become cover")
	}
}

func TestCreateRejectsOversizedBatch(t *testing.T) {
	store := &storeStub{}
	svc, _ := newTestService(&repoStub{}, store)

	var media []Upload
	for i := 0; i < MaxMediaItems+1; i++ {
		media = append(media, pngUpload(fmt.Sprintf("m%d.png", i)))
	}

	_, err := svc.Create(context.Background(), validCreate(), media, nil)
	if !errors.Is(err, ErrMediaLimit) {
		t.Fatalf("expected ErrMediaLimit, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("cap must be enforced before any upload")
	}
}

func TestCreatePerFileValidationIsNotAtomicAcrossBatch(t *testing.T) {
	repo := &repoStub{}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	media := []Upload{
		pngUpload("ok.png"),
		{Filename: "cv.pdf", Content: strings.NewReader("%PDF-1.4 not a picture")},
	}

	_, err := svc.Create(context.Background(), validCreate(), media, nil)
	if !errors.Is(err, storage.ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
	if !strings.Contains(err.Error(), "cv.pdf") {
		t.Fatalf("error should name the offending file, got %q", err.Error())
	}
	// the earlier file was already uploaded and stays orphaned
	uploaded := 0
	for _, k := range store.puts {
		if strings.Contains(k, "ok.png") {
			uploaded++
		}
	}
	if uploaded != 1 {
		t.Fatalf("earlier valid file should have been uploaded, puts=%v", store.puts)
	}
	if repo.created != nil {
		t.Fatalf("no record may be written when the batch aborts")
	}
}

func TestCreateAbortsOnUploadFailureWithoutRecord(t *testing.T) {
	repo := &repoStub{}
	store := &storeStub{failPut: "broken.png"}
	svc, notifier := newTestService(repo, store)

	media := []Upload{pngUpload("first.png"), pngUpload("broken.png")}
	_, err := svc.Create(context.Background(), validCreate(), media, nil)
	if err == nil {
		t.Fatalf("expected upload failure")
	}
	if repo.created != nil {
		t.Fatalf("no partial project record may be written")
	}
	if notifier.calls != 0 {
		t.Fatalf("no notification on failed create")
	}
}

func TestAddMediaRejectsBeyondCapWithNoStateChange(t *testing.T) {
	full := orderedProject("Full", 1)
	for i := 0; i < MaxMediaItems; i++ {
		full.Media = append(full.Media, MediaItem{URL: fmt.Sprintf("https://cdn.test/uploads/%d.png", i), Kind: MediaKindImage})
	}
	repo := &repoStub{projects: []*Project{full}}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	_, err := svc.AddMedia(context.Background(), full.ID, []Upload{pngUpload("eleventh.png")})
	if !errors.Is(err, ErrMediaLimit) {
		t.Fatalf("expected ErrMediaLimit, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("no upload may happen past the cap")
	}
	if repo.updated != nil {
		t.Fatalf("existing media must be unchanged")
	}
	if len(full.Media) != MaxMediaItems {
		t.Fatalf("media list mutated")
	}
}

func TestRemoveMediaDeletesBlobAndRecomputesCover(t *testing.T) {
	p := orderedProject("Proj", 1)
	p.Media = MediaList{
		{URL: "https://cdn.test/uploads/1-a.png", Kind: MediaKindImage},
		{URL: "https://cdn.test/uploads/2-b.png", Kind: MediaKindImage},
	}
	p.CoverImage = p.Media[0].URL
	repo := &repoStub{projects: []*Project{p}}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	updated, err := svc.RemoveMedia(context.Background(), p.ID, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(updated.Media) != 1 {
		t.Fatalf("expected one remaining media item")
	}
	if updated.CoverImage != "https://cdn.test/uploads/2-b.png" {
		t.Fatalf("cover should fall back to the next image, got %s", updated.CoverImage)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "uploads/1-a.png" {
		t.Fatalf("expected blob delete for removed item, got %v", store.deletes)
	}
}

func TestDeleteToleratesBlobFailuresAndStillDeletesRecord(t *testing.T) {
	p := orderedProject("Doomed", 1)
	p.CoverImage = "https://cdn.test/uploads/1-cover.png"
	p.Thumbnail = "https://cdn.test/uploads/1-cover_thumb.jpg"
	p.Media = MediaList{
		{URL: "https://cdn.test/uploads/1-a.png", Kind: MediaKindImage},
		{URL: "https://cdn.test/uploads/2-b.mp4", Kind: MediaKindVideo},
	}
	repo := &repoStub{projects: []*Project{p}}
	store := &storeStub{deleteErr: errors.New("storage unavailable")}
	svc, _ := newTestService(repo, store)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("record delete must proceed despite blob failures, got %v", err)
	}
	if len(store.deletes) != 4 {
		t.Fatalf("expected 4 blob delete attempts, got %d", len(store.deletes))
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != p.ID {
		t.Fatalf("record should be deleted")
	}
}

func TestDeleteSkipsDuplicateURLs(t *testing.T) {
	p := orderedProject("Dup", 1)
	p.CoverImage = "https://cdn.test/uploads/1-a.png"
	p.Media = MediaList{{URL: "https://cdn.test/uploads/1-a.png", Kind: MediaKindImage}}
	repo := &repoStub{projects: []*Project{p}}
	store := &storeStub{}
	svc, _ := newTestService(repo, store)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(store.deletes) != 1 {
		t.Fatalf("cover equal to a media URL should be deleted once, got %v", store.deletes)
	}
}

func TestMoveEarlierSwapsWithPreviousNeighbor(t *testing.T) {
	first := orderedProject("First", 1)
	second := orderedProject("Second", 2)
	third := orderedProject("Third", 3)
	repo := &repoStub{projects: []*Project{first, second, third}}
	svc, notifier := newTestService(repo, &storeStub{})

	if err := svc.Move(context.Background(), second.ID, DirEarlier); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.swaps) != 1 {
		t.Fatalf("expected one swap, got %d", len(repo.swaps))
	}
	if repo.swaps[0] != [2]uuid.UUID{second.ID, first.ID} {
		t.Fatalf("expected swap of second and first, got %v", repo.swaps[0])
	}
	if notifier.calls != 1 {
		t.Fatalf("expected notification after move")
	}
}

func TestMoveAtBoundaryIsNoOp(t *testing.T) {
	first := orderedProject("First", 1)
	last := orderedProject("Last", 2)
	repo := &repoStub{projects: []*Project{first, last}}
	svc, notifier := newTestService(repo, &storeStub{})

	if err := svc.Move(context.Background(), first.ID, DirEarlier); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.Move(context.Background(), last.ID, DirLater); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.swaps) != 0 {
		t.Fatalf("boundary moves must not swap, got %v", repo.swaps)
	}
	if notifier.calls != 0 {
		t.Fatalf("no notification for no-op moves")
	}
}

func TestMoveUnknownProject(t *testing.T) {
	repo := &repoStub{projects: []*Project{orderedProject("Only", 1)}}
	svc, _ := newTestService(repo, &storeStub{})

	if err := svc.Move(context.Background(), uuid.New(), DirLater); err != ErrProjectNotFound {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestEffectiveOrderSentinel(t *testing.T) {
	ordered := orderedProject("Ordered", 5)
	unordered := &Project{ID: uuid.New()}

	if ordered.EffectiveOrder() != 5 {
		t.Fatalf("expected 5, got %d", ordered.EffectiveOrder())
	}
	if unordered.EffectiveOrder() != OrderLast {
		t.Fatalf("expected sentinel, got %d", unordered.EffectiveOrder())
	}
}

func TestThumbnailRejectsVideo(t *testing.T) {
	svc, _ := newTestService(&repoStub{}, &storeStub{})

	// webm magic bytes
	webm := []byte{0x1a, 0x45, 0xdf, 0xa3, 0, 0, 0, 0, 0, 0, 0, 0}
	thumb := Upload{Filename: "clip.webm", Content: bytes.NewReader(webm)}

	_, err := svc.Create(context.Background(), validCreate(), nil, &thumb)
	if !errors.Is(err, ErrThumbnailNotImage) {
		t.Fatalf("expected ErrThumbnailNotImage, got %v", err)
	}
}
