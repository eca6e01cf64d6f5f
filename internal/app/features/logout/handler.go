// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(sm *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sm, AuditLog: auditLog, Log: logger}
}

// HandleLogout handles POST /logout. Signing out an anonymous caller is a
// no-op success.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			h.AuditLog.Logout(r.Context(), r, oid)
		}
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: clearing session failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
