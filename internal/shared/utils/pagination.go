package utils

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is the normalized form of page/limit/search query parameters.
type Pagination struct {
	Page   int
	Limit  int
	Search string
	// Pattern is an ILIKE pattern for Search with wildcards escaped.
	// Empty when there is no search.
	Pattern string
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination never fails: bad or out of range input falls back to defaults.
// page < 1 -> 1, limit < 1 -> 10, limit > 100 -> 100.
func ParsePagination(rawPage, rawLimit, rawSearch string) Pagination {
	page, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	search := normalizeSearch(rawSearch)

	p := Pagination{Page: page, Limit: limit, Search: search}
	if search != "" {
		p.Pattern = "%" + EscapeLike(search) + "%"
	}
	return p
}

// normalizeSearch trims input. Clients send a bare pair of quotes for "no filter".
func normalizeSearch(raw string) string {
	s := strings.TrimSpace(raw)
	if s == `""` || s == `''` {
		return ""
	}
	return s
}

// EscapeLike escapes LIKE metacharacters so the value matches literally (default escape char \).
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
