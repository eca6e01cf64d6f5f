// internal/app/features/errors/errors.go
//
// Package errors writes the JSON error envelope used across the API:
//
//	{ "error": "<reason-code>", "message": "..." }
//
// Every denied or failed action carries a specific reason code so the UI can
// distinguish "you are blocked" from "you lack permission" from "this request
// no longer exists".
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
)

// envelope is the wire shape of every error response.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes an error envelope with the given HTTP status and reason code.
func JSON(w http.ResponseWriter, httpStatus int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(envelope{Error: code, Message: msg})
}

// RenderUnauthorized writes a 401 unauthenticated envelope.
func RenderUnauthorized(w http.ResponseWriter) {
	JSON(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
}

// RenderForbidden writes a 403 forbidden envelope with a message.
func RenderForbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "You don't have permission to do that."
	}
	JSON(w, http.StatusForbidden, "forbidden", msg)
}

// RenderBlocked writes a 403 blocked envelope. Blocked is distinct from
// forbidden: the account is suspended regardless of role.
func RenderBlocked(w http.ResponseWriter) {
	JSON(w, http.StatusForbidden, "blocked", "Your account is blocked.")
}

// RenderNotFound writes a 404 envelope.
func RenderNotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not found."
	}
	JSON(w, http.StatusNotFound, "not_found", msg)
}

// RenderBadRequest writes a 400 envelope.
func RenderBadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, "bad_request", msg)
}

// Render maps a taxonomy error to its HTTP status and envelope. Unknown
// errors become an opaque 500 so internals never leak.
func Render(w http.ResponseWriter, err error) {
	var ite *lifecycle.IllegalTransitionError
	if errors.As(err, &ite) {
		JSON(w, http.StatusUnprocessableEntity, "illegal_transition", ite.Error())
		return
	}

	switch code := apperr.Code(err); code {
	case "unauthenticated":
		RenderUnauthorized(w)
	case "blocked":
		RenderBlocked(w)
	case "forbidden":
		RenderForbidden(w, "")
	case "not_found":
		RenderNotFound(w, "")
	case "conflict":
		JSON(w, http.StatusConflict, code, "The request changed underneath you; reload and try again.")
	case "store_unavailable":
		JSON(w, http.StatusServiceUnavailable, code, "Storage is temporarily unavailable.")
	case "resolution_failed":
		JSON(w, http.StatusServiceUnavailable, code, "Could not resolve your account; try again.")
	default:
		JSON(w, http.StatusInternalServerError, "internal", "Something went wrong.")
	}
}
