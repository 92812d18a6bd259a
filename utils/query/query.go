// Package query parses list parameters shared by paginated endpoints.
package query

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Pagination is returned next to a page of results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// FromRequest reads ?page= and ?limit=. Out of range values fall back to the defaults.
func FromRequest(c *fiber.Ctx) Page {
	p := Page{Number: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= MaxLimit {
		p.Limit = n
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func (p Page) Meta(total int64) Pagination {
	return Pagination{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}
}

// UintParam parses an optional numeric query parameter.
func UintParam(c *fiber.Ctx, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
