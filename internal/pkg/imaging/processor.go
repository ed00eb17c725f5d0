package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// Thumbnail dimensions for generated cover thumbnails
const (
	ThumbWidth  = 600
	ThumbHeight = 450
	jpegQuality = 85
)

// Processor generates web thumbnails for image media
type Processor struct{}

// NewProcessor creates an image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// Thumbnail decodes an image and returns a center-cropped thumbnail
// together with its content type.
func (p *Processor) Thumbnail(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fill(img, ThumbWidth, ThumbHeight, imaging.Center, imaging.Lanczos)

	encoded, contentType, err := encode(thumb, format)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return encoded, contentType, nil
}

func encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default:
		// JPEG for everything else, including gif/webp sources
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
