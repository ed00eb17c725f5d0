package project

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("create file part %s: %v", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file part %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestUpdateRejectsMediaParts(t *testing.T) {
	existing := orderedProject("Editable", 1)
	repo := &repoStub{projects: []*Project{existing}}
	store := &storeStub{}
	h := NewHandler(NewService(repo, store, thumbsStub{}, nil))

	r := chi.NewRouter()
	r.Put("/{id}", h.Update)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Edited", "year": "2024", "categories": "cat-1"},
		map[string][]byte{"media": pngHeader},
	)

	req := httptest.NewRequest(http.MethodPut, "/"+existing.ID.String(), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for media parts on update, got %d", rec.Code)
	}
	if len(store.puts) != 0 {
		t.Fatalf("rejected media must not be uploaded")
	}
	if repo.updated != nil {
		t.Fatalf("rejected update must not touch the record")
	}
}

func TestUpdateWithoutMediaSucceeds(t *testing.T) {
	existing := orderedProject("Editable", 1)
	existing.Categories = []string{"cat-1"}
	repo := &repoStub{projects: []*Project{existing}}
	h := NewHandler(NewService(repo, &storeStub{}, thumbsStub{}, nil))

	r := chi.NewRouter()
	r.Put("/{id}", h.Update)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Edited", "year": "2024", "categories": "cat-1"},
		nil,
	)

	req := httptest.NewRequest(http.MethodPut, "/"+existing.ID.String(), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if repo.updated == nil || repo.updated.Title != "Edited" {
		t.Fatalf("expected record update with new title, got %+v", repo.updated)
	}
}
