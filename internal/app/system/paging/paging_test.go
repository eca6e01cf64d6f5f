package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/donorhub/internal/app/system/paging"
)

func TestParse_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/requests", nil)
	p := paging.Parse(r)
	if p.Number != 1 || p.Skip != 0 {
		t.Errorf("default page = %+v", p)
	}
	if p.Limit != paging.PageSize+1 {
		t.Errorf("limit = %d, want %d", p.Limit, paging.PageSize+1)
	}
}

func TestParse_PageN(t *testing.T) {
	r := httptest.NewRequest("GET", "/requests?page=3", nil)
	p := paging.Parse(r)
	if p.Number != 3 {
		t.Errorf("page = %d, want 3", p.Number)
	}
	if p.Skip != int64(2*paging.PageSize) {
		t.Errorf("skip = %d", p.Skip)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, q := range []string{"page=0", "page=-2", "page=abc"} {
		r := httptest.NewRequest("GET", "/requests?"+q, nil)
		if p := paging.Parse(r); p.Number != 1 {
			t.Errorf("%s: page = %d, want 1", q, p.Number)
		}
	}
}

func TestTrim(t *testing.T) {
	rows := make([]int, paging.PageSize+1)
	if !paging.Trim(&rows) {
		t.Error("expected hasNext with PageSize+1 rows")
	}
	if len(rows) != paging.PageSize {
		t.Errorf("len = %d, want %d", len(rows), paging.PageSize)
	}

	short := []int{1, 2, 3}
	if paging.Trim(&short) {
		t.Error("expected no next page with short slice")
	}
	if len(short) != 3 {
		t.Errorf("short slice was modified: %d", len(short))
	}
}
