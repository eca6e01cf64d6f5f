// internal/app/features/geo/routes.go
package geo

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/districts", h.ServeDistricts)
	r.Get("/districts/{id}/upazilas", h.ServeUpazilas)
	r.Get("/bloodgroups", h.ServeBloodGroups)
	return r
}
