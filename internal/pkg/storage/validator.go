package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// MaxUploadSize is the per-file size ceiling (100 MiB)
const MaxUploadSize = 100 << 20

// AllowedMimeTypes maps accepted MIME types to the media kind they carry
var AllowedMimeTypes = map[string]string{
	"image/jpeg":      "image",
	"image/png":       "image",
	"image/webp":      "image",
	"image/gif":       "image",
	"video/mp4":       "video",
	"video/webm":      "video",
	"video/quicktime": "video",
}

// ValidateUpload reads and validates a single upload. Returns the buffered
// content, the detected MIME type and the media kind ("image" or "video").
// Errors name the offending file.
func ValidateUpload(reader io.Reader, filename string) ([]byte, string, string, error) {
	// Read up to maxSize+1 to detect oversized files without unbounded buffering
	limited := io.LimitReader(reader, MaxUploadSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: failed to read file: %w", filename, err)
	}

	if len(data) == 0 {
		return nil, "", "", fmt.Errorf("%s: %w", filename, ErrEmptyFile)
	}

	if int64(len(data)) > MaxUploadSize {
		return nil, "", "", fmt.Errorf("%s: %w", filename, ErrFileTooLarge)
	}

	// Detect MIME type from content, not the client-supplied header
	mimeType := http.DetectContentType(data)
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	kind, ok := AllowedMimeTypes[mimeType]
	if !ok {
		return nil, "", "", fmt.Errorf("%s (%s): %w", filename, mimeType, ErrInvalidMimeType)
	}

	return data, mimeType, kind, nil
}

// GetExtensionForMime returns the file extension for a MIME type
func GetExtensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	default:
		return ""
	}
}
