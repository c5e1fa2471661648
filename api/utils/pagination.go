package utils

import (
	"net/http"
	"strconv"

	"LotusLedger/api/constants"
	"LotusLedger/internal/models"
)

type PaginationParams struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// ExtractPagination reads page and per_page. Missing or unreadable values
// fall back to the first page and defaultPerPage; clamping to the last page
// happens once the total is known.
func ExtractPagination(r *http.Request, defaultPerPage int) PaginationParams {
	if defaultPerPage <= 0 {
		defaultPerPage = models.DefaultPerPage
	}
	params := PaginationParams{Page: 1, PerPage: defaultPerPage}
	if val := positiveInt(r.URL.Query().Get(constants.ParamPage)); val > 0 {
		params.Page = val
	}
	if val := positiveInt(r.URL.Query().Get(constants.ParamPerPage)); val > 0 {
		params.PerPage = val
	}
	return params
}

func positiveInt(s string) int {
	val, err := strconv.Atoi(s)
	if err != nil || val <= 0 {
		return 0
	}
	return val
}
