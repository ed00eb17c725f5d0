package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// minimal PNG header, enough for content-type sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func TestValidateUploadAcceptsPNG(t *testing.T) {
	data, mime, kind, err := ValidateUpload(bytes.NewReader(pngHeader), "shot.png")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("expected image/png, got %s", mime)
	}
	if kind != "image" {
		t.Fatalf("expected kind image, got %s", kind)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Fatalf("data was not buffered intact")
	}
}

func TestValidateUploadRejectsEmptyFile(t *testing.T) {
	_, _, _, err := ValidateUpload(bytes.NewReader(nil), "empty.png")
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestValidateUploadRejectsDisallowedType(t *testing.T) {
	_, _, _, err := ValidateUpload(strings.NewReader("%PDF-1.4 something"), "cv.pdf")
	if !errors.Is(err, ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
	if !strings.Contains(err.Error(), "cv.pdf") {
		t.Fatalf("error should name the file, got %q", err.Error())
	}
}

func TestValidateUploadNamesOffendingFile(t *testing.T) {
	_, _, _, err := ValidateUpload(bytes.NewReader(nil), "broken.jpg")
	if err == nil || !strings.Contains(err.Error(), "broken.jpg") {
		t.Fatalf("error should name the file, got %v", err)
	}
}

func TestBuildKeyUsesPrefixAndFilename(t *testing.T) {
	key := BuildKey("My Photo.jpg")
	if !strings.HasPrefix(key, KeyPrefix+"/") {
		t.Fatalf("key missing prefix: %s", key)
	}
	if !strings.HasSuffix(key, "-My Photo.jpg") {
		t.Fatalf("key missing filename: %s", key)
	}
}

func TestBuildKeyStripsDirectories(t *testing.T) {
	key := BuildKey("../../etc/passwd")
	if strings.Contains(key, "..") {
		t.Fatalf("key should not contain path traversal: %s", key)
	}
	if !strings.HasSuffix(key, "-passwd") {
		t.Fatalf("expected base filename only, got %s", key)
	}
}
