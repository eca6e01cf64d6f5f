// internal/app/features/funds/routes.go
package funds

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

// Routes returns the /funds subrouter.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/checkout", h.HandleCheckout)
	r.Post("/confirm", h.HandleConfirm)
	return r
}
