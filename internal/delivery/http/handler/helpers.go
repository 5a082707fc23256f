package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

func errInvalidQueryParam(name string) error {
	return fmt.Errorf("invalid query parameter: %s", name)
}

// parsePagination reads page and limit query parameters, defaulting to
// page 1 with 10 items and capping limit at 100.
func parsePagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			limit = n
		}
	}

	return page, limit
}
