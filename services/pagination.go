package services

import (
	"strings"

	"gorm.io/gorm"
)

const maxPageSize = 100

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

func newPagination(page, limit, fallbackLimit int, total int64) Pagination {
	page, limit = normalizePage(page, limit, fallbackLimit)
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Pages: pages, Total: total}
}

func normalizePage(page, limit, fallbackLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = fallbackLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func pageScope(page, limit, fallbackLimit int) func(*gorm.DB) *gorm.DB {
	page, limit = normalizePage(page, limit, fallbackLimit)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// sortOrder maps an API sort key such as "-createdAt" to an ORDER BY clause.
// Unknown keys fall back to newest first.
func sortOrder(key string, allowed map[string]string) string {
	desc := strings.HasPrefix(key, "-")
	column, ok := allowed[strings.TrimPrefix(key, "-")]
	if !ok {
		return "created_at desc"
	}
	if desc {
		return column + " desc"
	}
	return column + " asc"
}

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
