// Package accesspolicy is the route/action access gate.
//
// Check evaluates three stages in a fixed order, short-circuiting on the
// first denial:
//
//  1. session  — anonymous actors are denied any authenticated action
//  2. status   — blocked accounts are denied everything except read-only
//     profile viewing; status dominates role, so a blocked
//     admin is still denied
//  3. role     — an explicit allow-list table per action
//
// Stage four (ownership) applies only to mutations of a specific donation
// request and lives in policy/requestpolicy, composed by the lifecycle
// engine. The permission matrix is a table rather than scattered
// conditionals so it is independently testable.
package accesspolicy

import (
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
)

// Action names a guarded operation.
type Action string

const (
	RequestCreate  Action = "request.create"
	RequestViewOwn Action = "request.view.own"
	RequestViewAll Action = "request.view.all"
	RequestEdit    Action = "request.edit"
	RequestAssign  Action = "request.assign"
	RequestDone    Action = "request.done"
	RequestCancel  Action = "request.cancel"
	RequestDelete  Action = "request.delete"

	UserList      Action = "user.list"
	UserSetRole   Action = "user.setrole"
	UserSetStatus Action = "user.setstatus"

	AuditView Action = "audit.view"

	FundList     Action = "fund.list"
	FundCheckout Action = "fund.checkout"

	ProfileView Action = "profile.view"
)

// roleAllow is the role stage of the gate: which roles may attempt each
// action. Ownership narrowing (e.g. a donor may only edit their own
// request) happens in requestpolicy.
var roleAllow = map[Action][]string{
	RequestCreate:  {authz.RoleDonor, authz.RoleAdmin},
	RequestViewOwn: {authz.RoleDonor, authz.RoleVolunteer, authz.RoleAdmin},
	RequestViewAll: {authz.RoleVolunteer, authz.RoleAdmin},
	RequestEdit:    {authz.RoleDonor, authz.RoleAdmin},
	RequestAssign:  {authz.RoleVolunteer, authz.RoleAdmin},
	RequestDone:    {authz.RoleDonor, authz.RoleVolunteer, authz.RoleAdmin},
	RequestCancel:  {authz.RoleAdmin},
	RequestDelete:  {authz.RoleDonor, authz.RoleAdmin},

	UserList:      {authz.RoleAdmin},
	UserSetRole:   {authz.RoleAdmin},
	UserSetStatus: {authz.RoleAdmin},

	AuditView: {authz.RoleAdmin},

	FundList:     {authz.RoleDonor, authz.RoleVolunteer, authz.RoleAdmin},
	FundCheckout: {authz.RoleDonor, authz.RoleVolunteer, authz.RoleAdmin},

	ProfileView: {authz.RoleDonor, authz.RoleVolunteer, authz.RoleAdmin},
}

// readOnly actions stay available to blocked accounts.
var readOnly = map[Action]bool{
	ProfileView: true,
}

// Check runs the session, status, and role stages for action.
// A nil return means the actor passed all three stages.
func Check(actor authz.Actor, action Action) error {
	if actor.Anonymous() {
		return apperr.ErrUnauthenticated
	}
	if actor.Blocked() && !readOnly[action] {
		return apperr.ErrBlocked
	}
	roles, known := roleAllow[action]
	if !known {
		// Unknown actions fail closed.
		return apperr.ErrForbidden
	}
	if !actor.HasAnyRole(roles...) {
		return apperr.ErrForbidden
	}
	return nil
}
