// Package login authenticates password accounts. Blocked accounts may still
// sign in: the access gate denies their actions afterwards, and a blocked
// user seeing their own profile (and the block) is intentional.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/ratelimit"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sm *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sm,
		AuditLog:   auditLog,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// HandleLogin handles POST /login.
//
// Unknown email and wrong password produce the same 401 envelope so the
// endpoint cannot be used to probe which emails have accounts; the audit
// trail records the distinction.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	body.Email = normalize.Email(body.Email)
	if body.Email == "" || body.Password == "" {
		apierrors.RenderBadRequest(w, "email and password are required")
		return
	}

	if allowed, msg := h.Limiter.Check(r, body.Email); !allowed {
		apierrors.JSON(w, http.StatusTooManyRequests, "rate_limited", msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, body.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, body.Email, "no account")
			apierrors.JSON(w, http.StatusUnauthorized, "unauthenticated", "Invalid email or password.")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		apierrors.Render(w, err)
		return
	}

	if u.AuthMethod != "password" || u.PasswordHash == "" {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, body.Email, "wrong auth method")
		apierrors.JSON(w, http.StatusUnauthorized, "unauthenticated", "Invalid email or password.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)); err != nil {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, body.Email, "wrong password")
		apierrors.JSON(w, http.StatusUnauthorized, "unauthenticated", "Invalid email or password.")
		return
	}

	su := &auth.SessionUser{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("login: sign-in failed", zap.Error(err))
		apierrors.JSON(w, http.StatusInternalServerError, "internal", "Something went wrong.")
		return
	}

	h.Limiter.ResetEmail(u.Email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.AuthMethod, u.Email)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	})
}
