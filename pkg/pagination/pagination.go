package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// PaginationParams are the page/per_page query parameters
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns the first page at the default size
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PerPage: defaultPerPage}
}

// Validate clamps the parameters into range
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage = clampLimit(p.PerPage)
}

// Offset calculates the offset for SQL queries
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta is page-based response metadata
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	HasNext     bool  `json:"has_next"`
}

// NewMeta builds the metadata for one page
func NewMeta(p *PaginationParams, total int64) *Meta {
	last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}
	return &Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    last,
		HasNext:     p.Page < last,
	}
}

// Page is a page of items plus its metadata
type Page[T any] struct {
	Items []T   `json:"items"`
	Meta  *Meta `json:"meta"`
}

// NewPage wraps items; a nil slice is rendered as []
func NewPage[T any](items []T, p *PaginationParams, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Meta: NewMeta(p, total)}
}

// ErrInvalidCursor is returned when a cursor cannot be decoded
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is the keyset position encoded into an opaque token
type Cursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// CursorParams are the cursor/limit query parameters
type CursorParams struct {
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit" json:"limit"`
}

// Validate clamps the limit into range
func (c *CursorParams) Validate() {
	c.Limit = clampLimit(c.Limit)
}

// Decode returns the position after which to read, or nil for the first page
func (c *CursorParams) Decode() (*Cursor, error) {
	if c.Cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var cur Cursor
	if err := json.Unmarshal(raw, &cur); err != nil || cur.ID == "" {
		return nil, ErrInvalidCursor
	}
	return &cur, nil
}

// Encode turns a keyset position into a cursor token
func Encode(id string, createdAt time.Time) string {
	data, _ := json.Marshal(Cursor{ID: id, CreatedAt: createdAt.UTC()})
	return base64.RawURLEncoding.EncodeToString(data)
}

// CursorPage is one keyset page
type CursorPage[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
	HasNext    bool    `json:"has_next"`
	Limit      int     `json:"limit"`
}

// NewCursorPage trims a limit+1 fetch down to limit and sets the next cursor
// from the last kept item.
func NewCursorPage[T any](items []T, limit int, key func(T) (string, time.Time)) *CursorPage[T] {
	page := &CursorPage[T]{Items: items, Limit: limit}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasNext = true
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if page.HasNext {
		id, at := key(page.Items[len(page.Items)-1])
		next := Encode(id, at)
		page.NextCursor = &next
	}
	return page
}

func clampLimit(n int) int {
	switch {
	case n < 1:
		return defaultPerPage
	case n > maxPerPage:
		return maxPerPage
	}
	return n
}
