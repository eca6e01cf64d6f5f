// Package geo serves the public district/upazila reference data used by
// registration and request forms. No authentication: the data is static and
// needed before sign-up.
package geo

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/system/bloodgroups"
	"github.com/dalemusser/donorhub/internal/app/system/geodata"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// ServeDistricts handles GET /geo/districts.
func (h *Handler) ServeDistricts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"districts": geodata.Districts()})
}

// ServeUpazilas handles GET /geo/districts/{id}/upazilas.
func (h *Handler) ServeUpazilas(w http.ResponseWriter, r *http.Request) {
	d, ok := geodata.ByID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.RenderNotFound(w, "unknown district")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"district": d.Name, "upazilas": d.Upazilas})
}

// ServeBloodGroups handles GET /geo/bloodgroups.
func (h *Handler) ServeBloodGroups(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"blood_groups": bloodgroups.All})
}
