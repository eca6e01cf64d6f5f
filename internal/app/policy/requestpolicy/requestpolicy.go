// Package requestpolicy provides per-request authorization for donation
// requests: the ownership stage of the access gate plus the actor gating of
// each lifecycle edge.
//
// Authorization rules:
//   - Volunteers and admins may view any request; a donor only their own.
//   - Descriptive fields are editable by the owner or an admin, and only
//     while the request is pending.
//   - pending -> inprogress binds a donor to the request and is a triage
//     decision, so it is restricted to volunteer/admin.
//   - inprogress -> done may be triggered by the owner, a volunteer, or an
//     admin.
//   - Cancellation forecloses the request permanently and is admin-only.
//   - Deletion is admin-only for any status; the owning donor may delete
//     their own request only while it is still pending.
//
// All functions are pure; callers run accesspolicy.Check first, so the
// session/status/role stages have already passed.
package requestpolicy

import (
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// CanView reports whether the actor may read the request.
func CanView(actor authz.Actor, req *models.DonationRequest) error {
	if actor.IsAdmin() || actor.IsVolunteer() || actor.Owns(req.RequesterID) {
		return nil
	}
	return apperr.ErrForbidden
}

// CanEditFields reports whether the actor may mutate the descriptive fields.
// Owner or admin, pending only. Editing a request that has left pending is
// forbidden rather than an illegal transition: field edits are not edges.
func CanEditFields(actor authz.Actor, req *models.DonationRequest) error {
	if !actor.IsAdmin() && !actor.Owns(req.RequesterID) {
		return apperr.ErrForbidden
	}
	if lifecycle.Status(req.Status) != lifecycle.Pending {
		return apperr.ErrForbidden
	}
	return nil
}

// CanDelete reports whether the actor may remove the request entirely.
// Admins may delete any request; the owning donor only a pending one, so
// fulfillment history cannot be erased by its owner.
func CanDelete(actor authz.Actor, req *models.DonationRequest) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Owns(req.RequesterID) {
		if lifecycle.Status(req.Status) != lifecycle.Pending {
			return apperr.ErrForbidden
		}
		return nil
	}
	return apperr.ErrForbidden
}

// CanTransition reports whether the actor may move the request to the given
// target state. Edge legality (is from -> to in the table at all) is checked
// separately by lifecycle.CheckTransition; this is only the who-may-trigger
// column.
func CanTransition(actor authz.Actor, req *models.DonationRequest, to lifecycle.Status) error {
	switch to {
	case lifecycle.InProgress:
		if actor.IsVolunteer() || actor.IsAdmin() {
			return nil
		}
	case lifecycle.Done:
		if actor.IsVolunteer() || actor.IsAdmin() || actor.Owns(req.RequesterID) {
			return nil
		}
	case lifecycle.Canceled:
		if actor.IsAdmin() {
			return nil
		}
	}
	return apperr.ErrForbidden
}
