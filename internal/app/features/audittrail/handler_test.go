package audittrail

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/donorhub/internal/testutil"
)

// Gate denials return before any store access, so these run without a DB.

func TestHandleList_DonorForbidden(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/admin/audit", testutil.DonorUser())
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != 403 {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleList_VolunteerForbidden(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/admin/audit", testutil.VolunteerUser())
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != 403 {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleList_Anonymous401(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/admin/audit", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != 401 {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleList_BadFilterDates(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	for _, target := range []string{
		"/admin/audit?start_date=yesterday",
		"/admin/audit?end_date=2026-13-40",
		"/admin/audit?user_id=not-hex",
		"/admin/audit?request_id=zzz",
	} {
		req := testutil.NewAuthenticatedRequest("GET", target, testutil.AdminUser())
		rec := httptest.NewRecorder()
		h.HandleList(rec, req)

		if rec.Code != 400 {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}
