// Package userinfo serves GET /me: the caller's identity with role and
// status as resolved for this request. This endpoint stays available to
// blocked accounts so they can see that they are blocked.
package userinfo

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type meResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// ServeMe handles GET /me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	if err := auth.ResolutionError(r); err != nil {
		apierrors.Render(w, err)
		return
	}
	u, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.RenderUnauthorized(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(meResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	})
}
