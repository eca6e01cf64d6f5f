// Package users is the admin surface of the user directory: listing
// accounts and changing their role or status. Accounts are never deleted;
// blocking is the deactivation mechanism.
package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/policy/accesspolicy"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/paging"
	"github.com/dalemusser/donorhub/internal/app/system/status"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, AuditLog: auditLog, Log: logger}
}

// userRow is the directory listing shape; password hashes never leave the
// store layer.
type userRow struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	BloodGroup string `json:"blood_group,omitempty"`
	District   string `json:"district,omitempty"`
}

func toRow(u models.User) userRow {
	return userRow{
		ID:         u.ID.Hex(),
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Status:     u.Status,
		BloodGroup: u.BloodGroup,
		District:   u.District,
	}
}

type listResponse struct {
	Items   []userRow `json:"items"`
	Page    int       `json:"page"`
	HasNext bool      `json:"has_next"`
}

func opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}

// HandleList handles GET /admin/users.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.UserList); err != nil {
		apierrors.Render(w, err)
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	page := paging.Parse(r)
	users, err := h.Users.List(ctx, r.URL.Query().Get("search"), page.Limit, page.Skip)
	if err != nil {
		apierrors.Render(w, err)
		return
	}

	hasNext := paging.Trim(&users)
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, toRow(u))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Items: rows, Page: page.Number, HasNext: hasNext})
}

// HandleSetRole handles POST /admin/users/{id}/role.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.UserSetRole); err != nil {
		apierrors.Render(w, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderNotFound(w, "")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	body.Role = normalize.Role(body.Role)
	if !authz.ValidRole(body.Role) {
		apierrors.RenderBadRequest(w, `role must be "donor", "volunteer", or "admin"`)
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		apierrors.Render(w, err)
		return
	}

	if err := h.Users.SetRole(ctx, id, body.Role); err != nil {
		apierrors.Render(w, err)
		return
	}

	h.AuditLog.RoleChanged(ctx, r, actor.ID, id, target.Role, body.Role)
	h.Log.Info("user role changed",
		zap.String("user_id", id.Hex()),
		zap.String("old_role", target.Role),
		zap.String("new_role", body.Role),
		zap.String("actor_id", actor.ID.Hex()))

	target.Role = body.Role
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRow(*target))
}

// HandleSetStatus handles POST /admin/users/{id}/status. Blocking takes
// effect on the target's very next request via per-request resolution.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor := auth.CurrentActor(r)
	if err := accesspolicy.Check(actor, accesspolicy.UserSetStatus); err != nil {
		apierrors.Render(w, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderNotFound(w, "")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}
	body.Status = status.Normalize(body.Status)
	if !status.IsValid(body.Status) {
		apierrors.RenderBadRequest(w, `status must be "active" or "blocked"`)
		return
	}

	if id == actor.ID && body.Status == status.Blocked {
		apierrors.RenderBadRequest(w, "you cannot block your own account")
		return
	}

	ctx, cancel := opCtx(r)
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		apierrors.Render(w, err)
		return
	}

	if err := h.Users.SetStatus(ctx, id, body.Status); err != nil {
		apierrors.Render(w, err)
		return
	}

	h.AuditLog.StatusChanged(ctx, r, actor.ID, id, target.Status, body.Status)
	h.Log.Info("user status changed",
		zap.String("user_id", id.Hex()),
		zap.String("old_status", target.Status),
		zap.String("new_status", body.Status),
		zap.String("actor_id", actor.ID.Hex()))

	target.Status = body.Status
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toRow(*target))
}
