package category

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UncategorizedID is the fallback category identifier assigned to projects
// whose last category was deleted.
const UncategorizedID = "uncategorized"

// Category groups projects in the gallery
type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Slugify derives a slug from a display name: lowercase, spaces to hyphens.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
