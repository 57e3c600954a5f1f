// Package utils provides small generic helpers with no domain knowledge.
package utils

import "strconv"

// Pagination defaults shared by list endpoints.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s as an int, returning def when s is empty or invalid.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage reads raw page and page-size values and clamps them: page is at
// least 1, size falls back to DefaultPageSize when not positive and is capped
// at MaxPageSize.
func ParsePage(pageRaw, sizeRaw string) (page, size int) {
	page = AtoiDefault(pageRaw, DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	size = AtoiDefault(sizeRaw, DefaultPageSize)
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Paginate returns the 1-based page of items. A page past the end yields an
// empty, non-nil slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
