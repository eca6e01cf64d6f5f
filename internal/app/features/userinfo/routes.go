// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeMe)
	return r
}
