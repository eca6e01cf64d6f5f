// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

// Routes returns the /admin/users subrouter. The admin role check happens in
// the handlers through the access gate so denials carry precise reason codes.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/{id}/role", h.HandleSetRole)
	r.Post("/{id}/status", h.HandleSetStatus)
	return r
}
