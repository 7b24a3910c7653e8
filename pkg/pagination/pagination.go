package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxLimit caps how many rows any list query can request.
const MaxLimit = 100

// Params holds the normalized offset-pagination inputs shared by every
// list endpoint: a 1-indexed page and a per-route page size.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block attached to list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// FromRequest reads page/limit from the query string, falling back to the
// route's default limit. Page is clamped to >= 1, limit to [1, MaxLimit].
// Malformed values fall back to the defaults rather than failing the request.
func FromRequest(r *http.Request, defaultLimit int) Params {
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", defaultLimit)
	return Normalize(page, limit, defaultLimit)
}

// Normalize clamps raw page/limit values into the contract's bounds.
func Normalize(page, limit, defaultLimit int) Params {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor builds the response metadata for the given total row count.
// Pages is ceil(total/limit).
func (p Params) MetaFor(total int64) Meta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
