// Package authz defines the Actor value threaded through every permission
// decision, and small role predicates over it.
//
// An Actor is an explicit parameter, never a global: it is resolved per
// request by auth.LoadSessionUser and re-resolved on every session change,
// so role/status edits and blocks take effect immediately.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/donorhub/internal/app/system/status"
)

// Role tags. Exactly one per user; donor is the default for new accounts.
const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// ValidRole reports whether r is a recognized role tag.
func ValidRole(r string) bool {
	return r == RoleDonor || r == RoleVolunteer || r == RoleAdmin
}

// Actor is the identity initiating an action, carrying its resolved role and
// account status. The zero Actor is anonymous.
type Actor struct {
	ID     primitive.ObjectID
	Name   string
	Email  string
	Role   string // donor | volunteer | admin
	Status string // active | blocked
}

// Anonymous reports whether no signed-in identity is present.
func (a Actor) Anonymous() bool {
	return a.ID.IsZero()
}

// Blocked reports whether the actor's account status is blocked.
func (a Actor) Blocked() bool {
	return a.Status == status.Blocked
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return !a.Anonymous() && a.Role == RoleAdmin }

// IsVolunteer reports whether the actor holds the volunteer role.
func (a Actor) IsVolunteer() bool { return !a.Anonymous() && a.Role == RoleVolunteer }

// IsDonor reports whether the actor holds the donor role.
func (a Actor) IsDonor() bool { return !a.Anonymous() && a.Role == RoleDonor }

// HasAnyRole reports whether the actor holds one of the given roles.
// Anonymous actors hold no role.
func (a Actor) HasAnyRole(roles ...string) bool {
	if a.Anonymous() {
		return false
	}
	for _, want := range roles {
		if a.Role == want {
			return true
		}
	}
	return false
}

// Owns reports whether the actor is the owner identified by requesterID.
func (a Actor) Owns(requesterID primitive.ObjectID) bool {
	return !a.Anonymous() && a.ID == requesterID
}
