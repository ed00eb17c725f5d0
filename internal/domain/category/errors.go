package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("a category with this name already exists")
)
