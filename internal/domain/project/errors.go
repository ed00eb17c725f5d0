package project

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrNoCategories      = errors.New("select at least one category")
	ErrInvalidYear       = errors.New("year is out of range")
	ErrMediaLimit        = errors.New("media limit reached")
	ErrMediaIndex        = errors.New("no media item at that position")
	ErrThumbnailNotImage = errors.New("thumbnail must be an image")
)
