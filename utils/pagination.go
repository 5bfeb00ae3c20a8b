package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// keeps (page-1)*limit far from overflow
	MaxPage = 1_000_000
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ParsePagination reads page/limit query params. Bad values fall back to
// defaults, page is capped at MaxPage and limit at MaxLimit.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = DefaultPage
	}
	page = ClampPage(page)
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
