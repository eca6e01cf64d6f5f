package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handlers directly without a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID     string
	Name   string
	Email  string
	Role   string
	Status string
}

// DonorUser returns an active donor.
func DonorUser() TestUser {
	return TestUser{
		ID:     primitive.NewObjectID().Hex(),
		Name:   "Test Donor",
		Email:  "donor@test.com",
		Role:   "donor",
		Status: "active",
	}
}

// VolunteerUser returns an active volunteer.
func VolunteerUser() TestUser {
	return TestUser{
		ID:     primitive.NewObjectID().Hex(),
		Name:   "Test Volunteer",
		Email:  "volunteer@test.com",
		Role:   "volunteer",
		Status: "active",
	}
}

// AdminUser returns an active admin.
func AdminUser() TestUser {
	return TestUser{
		ID:     primitive.NewObjectID().Hex(),
		Name:   "Test Admin",
		Email:  "admin@test.com",
		Role:   "admin",
		Status: "active",
	}
}

// Blocked returns a copy of u with blocked status.
func (u TestUser) Blocked() TestUser {
	u.Status = "blocked"
	return u
}

// WithUser adds a user to the request context, bypassing session middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	})
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}
