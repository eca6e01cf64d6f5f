package requestpolicy_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/donorhub/internal/app/policy/requestpolicy"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/status"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

func actor(role string) authz.Actor {
	return authz.Actor{ID: primitive.NewObjectID(), Role: role, Status: status.Active}
}

func request(owner authz.Actor, st lifecycle.Status) *models.DonationRequest {
	return &models.DonationRequest{
		ID:             primitive.NewObjectID(),
		RequesterID:    owner.ID,
		RequesterEmail: owner.Email,
		Status:         string(st),
	}
}

func TestCanView(t *testing.T) {
	owner := actor(authz.RoleDonor)
	req := request(owner, lifecycle.Pending)

	if err := requestpolicy.CanView(owner, req); err != nil {
		t.Errorf("owner view: %v", err)
	}
	if err := requestpolicy.CanView(actor(authz.RoleVolunteer), req); err != nil {
		t.Errorf("volunteer view: %v", err)
	}
	if err := requestpolicy.CanView(actor(authz.RoleAdmin), req); err != nil {
		t.Errorf("admin view: %v", err)
	}
	if err := requestpolicy.CanView(actor(authz.RoleDonor), req); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("stranger donor view = %v, want ErrForbidden", err)
	}
}

func TestCanEditFields_OwnerPendingOnly(t *testing.T) {
	owner := actor(authz.RoleDonor)

	if err := requestpolicy.CanEditFields(owner, request(owner, lifecycle.Pending)); err != nil {
		t.Errorf("owner edit pending: %v", err)
	}
	for _, st := range []lifecycle.Status{lifecycle.InProgress, lifecycle.Done, lifecycle.Canceled} {
		if err := requestpolicy.CanEditFields(owner, request(owner, st)); !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("owner edit %s = %v, want ErrForbidden", st, err)
		}
	}
}

func TestCanEditFields_StrangerDenied(t *testing.T) {
	owner := actor(authz.RoleDonor)
	req := request(owner, lifecycle.Pending)

	if err := requestpolicy.CanEditFields(actor(authz.RoleDonor), req); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("stranger edit = %v, want ErrForbidden", err)
	}
	if err := requestpolicy.CanEditFields(actor(authz.RoleVolunteer), req); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("volunteer edit = %v, want ErrForbidden", err)
	}
	if err := requestpolicy.CanEditFields(actor(authz.RoleAdmin), req); err != nil {
		t.Errorf("admin edit pending: %v", err)
	}
}

func TestCanDelete(t *testing.T) {
	owner := actor(authz.RoleDonor)
	admin := actor(authz.RoleAdmin)

	// Admin: any status.
	for _, st := range []lifecycle.Status{lifecycle.Pending, lifecycle.InProgress, lifecycle.Done, lifecycle.Canceled} {
		if err := requestpolicy.CanDelete(admin, request(owner, st)); err != nil {
			t.Errorf("admin delete %s: %v", st, err)
		}
	}

	// Owner: pending only.
	if err := requestpolicy.CanDelete(owner, request(owner, lifecycle.Pending)); err != nil {
		t.Errorf("owner delete pending: %v", err)
	}
	for _, st := range []lifecycle.Status{lifecycle.InProgress, lifecycle.Done, lifecycle.Canceled} {
		if err := requestpolicy.CanDelete(owner, request(owner, st)); !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("owner delete %s = %v, want ErrForbidden", st, err)
		}
	}

	// Volunteers never delete.
	if err := requestpolicy.CanDelete(actor(authz.RoleVolunteer), request(owner, lifecycle.Pending)); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("volunteer delete = %v, want ErrForbidden", err)
	}
}

func TestCanTransition(t *testing.T) {
	owner := actor(authz.RoleDonor)
	stranger := actor(authz.RoleDonor)
	volunteer := actor(authz.RoleVolunteer)
	admin := actor(authz.RoleAdmin)

	pending := request(owner, lifecycle.Pending)
	inprog := request(owner, lifecycle.InProgress)

	// pending -> inprogress: volunteer/admin only.
	if err := requestpolicy.CanTransition(volunteer, pending, lifecycle.InProgress); err != nil {
		t.Errorf("volunteer assign: %v", err)
	}
	if err := requestpolicy.CanTransition(admin, pending, lifecycle.InProgress); err != nil {
		t.Errorf("admin assign: %v", err)
	}
	if err := requestpolicy.CanTransition(owner, pending, lifecycle.InProgress); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("owner assign = %v, want ErrForbidden", err)
	}

	// inprogress -> done: owner, volunteer, admin; not a stranger donor.
	if err := requestpolicy.CanTransition(owner, inprog, lifecycle.Done); err != nil {
		t.Errorf("owner done: %v", err)
	}
	if err := requestpolicy.CanTransition(stranger, inprog, lifecycle.Done); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("stranger done = %v, want ErrForbidden", err)
	}

	// cancel: admin only.
	if err := requestpolicy.CanTransition(admin, pending, lifecycle.Canceled); err != nil {
		t.Errorf("admin cancel: %v", err)
	}
	if err := requestpolicy.CanTransition(volunteer, pending, lifecycle.Canceled); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("volunteer cancel = %v, want ErrForbidden", err)
	}
	if err := requestpolicy.CanTransition(owner, inprog, lifecycle.Canceled); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("owner cancel = %v, want ErrForbidden", err)
	}
}
