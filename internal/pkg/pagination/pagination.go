package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PerPage is the fixed number of items per page
const PerPage = 15

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
	NextPage    int   `json:"next_page"`
	PrevPage    int   `json:"prev_page"`
}

// GetParams extracts the 1-based page number from the request.
// Page is clamped to >= 1; the page size is fixed.
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	return &Params{
		Page:   page,
		Limit:  PerPage,
		Offset: (page - 1) * PerPage,
	}
}

// GetMeta calculates pagination metadata. TotalPages is never below 1,
// so page 1 of zero results still reports one (empty) page.
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	prevPage := params.Page - 1
	if prevPage < 1 {
		prevPage = 1
	}

	return &Meta{
		Total:       total,
		CurrentPage: params.Page,
		PerPage:     params.Limit,
		TotalPages:  totalPages,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
		NextPage:    params.Page + 1,
		PrevPage:    prevPage,
	}
}
