package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const MaxPageSize = 100

// MaxPage keeps the skip offset within range for any allowed limit.
const MaxPage = math.MaxInt / MaxPageSize

// PageParams is a requested page of a listing.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// GetPageParams reads page/limit from the query, falling back on bad input.
func GetPageParams(c *gin.Context) PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 || limit > MaxPageSize {
		limit = 10
	}
	return PageParams{Page: page, Limit: limit}
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	HasNext     bool
	HasPrev     bool
}

func NewPagination(p PageParams, total int64) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}

// JSON renders the pagination block, naming the total after the listed resource.
func (p Pagination) JSON(totalKey string) gin.H {
	return gin.H{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		totalKey:      p.Total,
		"hasNext":     p.HasNext,
		"hasPrev":     p.HasPrev,
	}
}
