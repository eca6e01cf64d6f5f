// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

// Routes returns the /requests subrouter. Every endpoint requires a signed-in
// session; finer gating (role, status, ownership, lifecycle) happens in the
// engine per call.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleListMine)
	r.Get("/all", h.HandleListAll)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Put("/", h.HandleEdit)
		r.Delete("/", h.HandleDelete)
		r.Post("/assign", h.HandleAssign)
		r.Post("/done", h.HandleDone)
		r.Post("/cancel", h.HandleCancel)
	})
	return r
}
