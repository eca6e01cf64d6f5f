// Package apperr defines the shared error taxonomy for DonorHub.
//
// Gate denials (ErrUnauthenticated, ErrForbidden, ErrBlocked) are pre-flight:
// the lifecycle engine returns them before any store call is made, so the UI
// can hide or disable the corresponding controls. ErrStoreUnavailable and
// ErrResolutionFailed look transient to callers but are never retried
// automatically; a retry could double-apply a mutation such as a donor
// assignment.
package apperr

import "errors"

var (
	// ErrUnauthenticated means no signed-in actor is present.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the actor's role does not permit the action.
	ErrForbidden = errors.New("forbidden")

	// ErrBlocked means the actor's account status is blocked. Blocked
	// dominates role: a blocked admin is still denied.
	ErrBlocked = errors.New("blocked")

	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a conditional update lost a race: the stored status
	// no longer matched the expected prior state.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable wraps transport or persistence failures from the
	// request store gateway.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrResolutionFailed means the role/status lookup itself failed, as
	// opposed to the actor simply having no directory record yet.
	ErrResolutionFailed = errors.New("role resolution failed")
)

// Code returns the wire-level reason code for err, or "" if err is not part
// of the taxonomy. Handlers use it to build the JSON error envelope so a
// denied action is always explainable with a specific reason.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrResolutionFailed):
		return "resolution_failed"
	}
	return ""
}
