// internal/app/features/audittrail/routes.go
package audittrail

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

// Routes returns the /admin/audit subrouter. The admin role check happens in
// the handler through the access gate so denials carry precise reason codes.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	return r
}
