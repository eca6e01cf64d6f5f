// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/donorhub/internal/app/system/authz"
)

// SessionUser is what we cache in the session & inject into r.Context().
// Role and Status are re-resolved from the user directory on every request;
// only the identity fields are trusted from the cookie.
type SessionUser struct {
	ID     string
	Name   string
	Email  string
	Role   string
	Status string
}

type ctxKey string

const (
	currentUserKey   ctxKey = "currentUser"
	resolutionErrKey ctxKey = "resolutionErr"
)

// CurrentUser returns the session user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// CurrentActor converts the session user into an explicit authz.Actor.
// The zero (anonymous) Actor is returned when no user is signed in or the
// session carries a malformed id; malformed ids fail closed.
func CurrentActor(r *http.Request) authz.Actor {
	u, ok := CurrentUser(r)
	if !ok {
		return authz.Actor{}
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return authz.Actor{}
	}
	return authz.Actor{
		ID:     oid,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

// ResolutionError returns the role/status resolution failure recorded for
// this request, if any. Guard middleware surfaces it instead of making a
// permission decision on unresolved data.
func ResolutionError(r *http.Request) error {
	err, _ := r.Context().Value(resolutionErrKey).(error)
	return err
}

// WithTestUser injects a session user directly into the request context.
// Test helper; production code goes through LoadSessionUser.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func withResolutionError(r *http.Request, err error) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), resolutionErrKey, err))
}
