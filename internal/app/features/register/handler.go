// Package register creates new accounts. Every registration lands as
// donor/active; roles are only ever raised afterwards by an admin.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/bloodgroups"
	"github.com/dalemusser/donorhub/internal/app/system/geodata"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sm *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, SessionMgr: sm, AuditLog: auditLog, Log: logger}
}

type registerBody struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	BloodGroup string `json:"blood_group"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
}

type registerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// HandleRegister handles POST /register. The new account is signed in
// immediately.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.RenderBadRequest(w, "invalid JSON body")
		return
	}

	body.FullName = normalize.Name(body.FullName)
	body.Email = normalize.Email(body.Email)
	if body.FullName == "" || body.Email == "" {
		apierrors.RenderBadRequest(w, "full_name and email are required")
		return
	}
	if len(body.Password) < 8 {
		apierrors.RenderBadRequest(w, "password must be at least 8 characters")
		return
	}
	if body.BloodGroup != "" {
		body.BloodGroup = bloodgroups.Normalize(body.BloodGroup)
		if !bloodgroups.IsValid(body.BloodGroup) {
			apierrors.RenderBadRequest(w, "unknown blood group")
			return
		}
	}
	if body.District != "" && !geodata.ValidDistrict(body.District) {
		apierrors.RenderBadRequest(w, "unknown district")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		apierrors.JSON(w, http.StatusInternalServerError, "internal", "Something went wrong.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     body.FullName,
		Email:        body.Email,
		AuthMethod:   "password",
		PasswordHash: string(hash),
		BloodGroup:   body.BloodGroup,
		District:     body.District,
		Upazila:      body.Upazila,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apierrors.JSON(w, http.StatusConflict, "conflict", "An account with this email already exists.")
			return
		}
		h.Log.Error("register: create user failed", zap.Error(err))
		apierrors.Render(w, err)
		return
	}

	su := &auth.SessionUser{
		ID:     created.ID.Hex(),
		Name:   created.FullName,
		Email:  created.Email,
		Role:   created.Role,
		Status: created.Status,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("register: sign-in failed", zap.Error(err))
	}

	h.AuditLog.UserRegistered(ctx, r, created.ID, created.AuthMethod)
	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("email", created.Email))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(registerResponse{
		ID:     created.ID.Hex(),
		Name:   created.FullName,
		Email:  created.Email,
		Role:   created.Role,
		Status: created.Status,
	})
}
