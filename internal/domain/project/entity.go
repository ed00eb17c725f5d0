package project

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderLast is the sentinel sort position for projects without an explicit
// order value; they sort after every ordered project.
const OrderLast = math.MaxInt32

// MaxMediaItems caps the media attached to a single project
const MaxMediaItems = 10

// MediaKind discriminates media items
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaItem is a single media attachment, owned exclusively by its project
type MediaItem struct {
	URL         string    `json:"url"`
	Kind        MediaKind `json:"kind"`
	Description string    `json:"description,omitempty"`
}

// MediaList is an ordered list of media items stored as a JSONB column
type MediaList []MediaItem

// Value implements driver.Valuer
func (m MediaList) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *MediaList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported media list type %T", src)
	}
}

// Project is a portfolio entry
type Project struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Year        int            `db:"year" json:"year"`
	Categories  pq.StringArray `db:"categories" json:"categories"`
	CoverImage  string         `db:"cover_image" json:"cover_image"`
	Thumbnail   string         `db:"thumbnail" json:"thumbnail"`
	Media       MediaList      `db:"media" json:"media"`
	SortOrder   sql.NullInt64  `db:"sort_order" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// EffectiveOrder returns the sort position, substituting the sentinel for
// projects without an explicit order. Applied once at the read boundary.
func (p *Project) EffectiveOrder() int {
	if p.SortOrder.Valid {
		return int(p.SortOrder.Int64)
	}
	return OrderLast
}

// HasCategory reports whether the project's category set contains id
func (p *Project) HasCategory(id string) bool {
	for _, c := range p.Categories {
		if c == id {
			return true
		}
	}
	return false
}
