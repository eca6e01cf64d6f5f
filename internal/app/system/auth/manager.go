// internal/app/system/auth/manager.go
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	apierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/status"
)

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userNameKey  = "user_name"
	userEmailKey = "user_email"
)

// UserFetcher resolves an actor's role and status from the user directory.
//
// Contract:
//   - record found: return the populated SessionUser
//   - no directory record yet (profile row has not propagated): return
//     (nil, nil); the caller applies the safe default donor/active
//   - lookup failure (network/auth): return a non-nil error wrapping
//     apperr.ErrResolutionFailed; the caller must NOT default
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (*SessionUser, error)
}

// SessionManager owns the cookie session store and the per-request
// role/status resolution pipeline.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure with SameSite=None for
// cross-site use over HTTPS; in dev, Lax over http://localhost.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide >=32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher installs the directory lookup used to refresh role/status
// on each request. Without a fetcher, sessions carry identity only and every
// actor resolves to the donor/active default.
func (m *SessionManager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// session fetches the request's session, tolerating an undecodable cookie.
// A tampered or stale cookie yields a fresh session rather than an error;
// anything else is logged and the fresh session is used anyway.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// SignIn records the user's identity in the session cookie. Role and status
// are deliberately not persisted; they are re-resolved per request.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess := m.session(r)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userEmailKey] = u.Email
	return sess.Save(r, w)
}

// SignOut clears the session.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := m.session(r)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the current user into context if they are signed
// in, resolving role/status through the UserFetcher.
//
// Resolution outcomes:
//   - directory record found: its role/status win (an admin block or role
//     change applies on the very next request)
//   - no record yet: safe default donor/active, using the identity cached
//     in the cookie
//   - lookup failed: no user is injected; the failure is recorded in
//     context so guards answer resolution_failed instead of guessing
//
// A resolution whose subject no longer matches the session's user id is
// discarded; this closes the stale-resolution race around logout/login.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.session(r)

		isAuth, _ := sess.Values[isAuthKey].(bool)
		if !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		su := &SessionUser{
			ID:    getString(sess, userIDKey),
			Name:  getString(sess, userNameKey),
			Email: getString(sess, userEmailKey),
		}
		if su.ID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if m.fetcher != nil {
			fetched, err := m.fetcher.FetchUser(r.Context(), su.ID)
			switch {
			case err != nil:
				m.log.Warn("role resolution failed", zap.String("user_id", su.ID), zap.Error(err))
				next.ServeHTTP(w, withResolutionError(r, err))
				return
			case fetched != nil:
				if fetched.ID != su.ID {
					// Stale resolution for a different identity.
					next.ServeHTTP(w, r)
					return
				}
				su = fetched
			default:
				// No directory record yet; default the new account to
				// donor/active rather than locking it out while the
				// profile row propagates.
				su.Role = authz.RoleDonor
				su.Status = status.Active
			}
		} else {
			su.Role = authz.RoleDonor
			su.Status = status.Active
		}

		next.ServeHTTP(w, withUser(r, su))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// Anonymous callers get a 401 envelope; a failed role resolution gets a 503
// envelope rather than an incorrect permission decision.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ResolutionError(r); err != nil {
			apierrors.Render(w, err)
			return
		}
		if _, ok := CurrentUser(r); !ok {
			apierrors.RenderUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the current user holds one of the allowed roles.
// Blocked accounts are denied before the role check so suspension is
// absolute regardless of privilege level.
func (m *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ResolutionError(r); err != nil {
				apierrors.Render(w, err)
				return
			}
			u, ok := CurrentUser(r)
			if !ok {
				apierrors.RenderUnauthorized(w)
				return
			}
			if u.Status == status.Blocked {
				apierrors.RenderBlocked(w)
				return
			}
			for _, role := range allowed {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			apierrors.RenderForbidden(w, "")
		})
	}
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
