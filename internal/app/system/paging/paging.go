// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// PageSize is the default number of rows in paged list responses.
const PageSize = 50

// Page holds parsed pagination parameters for a list query.
type Page struct {
	Number int   // 1-based page number
	Limit  int64 // rows to fetch (PageSize+1 for look-ahead)
	Skip   int64 // rows to skip
}

// Parse extracts the "page" query parameter (1-based). Invalid or missing
// values fall back to page 1. Limit is PageSize+1 so callers can detect a
// next page by fetching one extra row.
func Parse(r *http.Request) Page {
	n := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			n = v
		}
	}
	return Page{
		Number: n,
		Limit:  int64(PageSize + 1),
		Skip:   int64((n - 1) * PageSize),
	}
}

// Trim trims a fetched slice after a look-ahead fetch of PageSize+1 rows.
// It modifies the slice in place and reports whether a next page exists.
func Trim[T any](rows *[]T) (hasNext bool) {
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		return true
	}
	return false
}
