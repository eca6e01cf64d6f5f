package engine

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	requeststore "github.com/dalemusser/donorhub/internal/app/store/requests"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/status"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// fakeGateway is an in-memory Gateway that records which calls reached
// persistence, so tests can assert that denied actors never touch the store.
type fakeGateway struct {
	reqs map[primitive.ObjectID]*models.DonationRequest

	createCalls int
	writeCalls  int

	getErr    error
	updateErr error
}

func newFake(reqs ...*models.DonationRequest) *fakeGateway {
	f := &fakeGateway{reqs: map[primitive.ObjectID]*models.DonationRequest{}}
	for _, r := range reqs {
		f.reqs[r.ID] = r
	}
	return f
}

func (f *fakeGateway) Create(_ context.Context, req models.DonationRequest) (models.DonationRequest, error) {
	f.createCalls++
	req.ID = primitive.NewObjectID()
	cp := req
	f.reqs[req.ID] = &cp
	return req, nil
}

func (f *fakeGateway) Get(_ context.Context, id primitive.ObjectID) (*models.DonationRequest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.reqs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeGateway) ListByFilter(_ context.Context, filter requeststore.Filter) ([]models.DonationRequest, error) {
	var out []models.DonationRequest
	for _, r := range f.reqs {
		if !filter.RequesterID.IsZero() && r.RequesterID != filter.RequesterID {
			continue
		}
		if filter.Status != "" && r.Status != string(filter.Status) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeGateway) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to lifecycle.Status, donor *models.DonorRef) error {
	f.writeCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.reqs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if r.Status != string(from) {
		return apperr.ErrConflict
	}
	r.Status = string(to)
	if donor != nil {
		r.Donor = donor
	}
	return nil
}

func (f *fakeGateway) UpdateFields(_ context.Context, id primitive.ObjectID, upd requeststore.FieldUpdate) error {
	f.writeCalls++
	r, ok := f.reqs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	r.RecipientName = upd.RecipientName
	r.BloodGroup = upd.BloodGroup
	return nil
}

func (f *fakeGateway) Delete(_ context.Context, id primitive.ObjectID) error {
	f.writeCalls++
	if _, ok := f.reqs[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(f.reqs, id)
	return nil
}

func actorWith(role string) authz.Actor {
	return authz.Actor{
		ID:     primitive.NewObjectID(),
		Name:   "Test " + role,
		Email:  role + "@example.com",
		Role:   role,
		Status: status.Active,
	}
}

func pendingReq(owner authz.Actor) *models.DonationRequest {
	return &models.DonationRequest{
		ID:             primitive.NewObjectID(),
		RequesterID:    owner.ID,
		RequesterEmail: owner.Email,
		RecipientName:  "Rahim Uddin",
		BloodGroup:     "O+",
		District:       "Dhaka",
		Upazila:        "Savar",
		HospitalName:   "Enam Medical",
		DonationDate:   "2026-09-15",
		DonationTime:   "10:30",
		Status:         string(lifecycle.Pending),
	}
}

func validInput() RequestInput {
	return RequestInput{
		RecipientName: "Rahim Uddin",
		BloodGroup:    "o+",
		District:      "Dhaka",
		Upazila:       "Savar",
		HospitalName:  "Enam Medical",
		DonationDate:  "2026-09-15",
		DonationTime:  "10:30",
	}
}

func TestCreate_ForcesPending(t *testing.T) {
	fake := newFake()
	e := New(fake, zap.NewNop())
	donor := actorWith(authz.RoleDonor)

	created, err := e.Create(context.Background(), donor, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != string(lifecycle.Pending) {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.RequesterID != donor.ID || created.RequesterEmail != donor.Email {
		t.Error("requester identity not taken from actor")
	}
	if created.BloodGroup != "O+" {
		t.Errorf("blood group not normalized: %q", created.BloodGroup)
	}
}

func TestCreate_AnonymousDenied(t *testing.T) {
	fake := newFake()
	e := New(fake, zap.NewNop())

	_, err := e.Create(context.Background(), authz.Actor{}, validInput())
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
	if fake.createCalls != 0 {
		t.Error("store reached despite gate denial")
	}
}

func TestCreate_BlockedDenied(t *testing.T) {
	fake := newFake()
	e := New(fake, zap.NewNop())
	blocked := actorWith(authz.RoleDonor)
	blocked.Status = status.Blocked

	_, err := e.Create(context.Background(), blocked, validInput())
	if !errors.Is(err, apperr.ErrBlocked) {
		t.Errorf("err = %v, want ErrBlocked", err)
	}
	if fake.createCalls != 0 {
		t.Error("store reached despite gate denial")
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	e := New(newFake(), zap.NewNop())
	donor := actorWith(authz.RoleDonor)

	cases := []struct {
		name   string
		mutate func(*RequestInput)
	}{
		{"empty recipient", func(in *RequestInput) { in.RecipientName = " " }},
		{"bad blood group", func(in *RequestInput) { in.BloodGroup = "Q+" }},
		{"unknown district", func(in *RequestInput) { in.District = "Atlantis" }},
		{"upazila outside district", func(in *RequestInput) { in.Upazila = "Sreepur" }},
		{"bad date", func(in *RequestInput) { in.DonationDate = "15-09-2026" }},
		{"bad time", func(in *RequestInput) { in.DonationTime = "10.30" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := e.Create(context.Background(), donor, in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestAssign_VolunteerBindsDonor(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	fake := newFake(req)
	e := New(fake, zap.NewNop())

	vol := actorWith(authz.RoleVolunteer)
	out, err := e.Assign(context.Background(), vol, req.ID, models.DonorRef{Name: "Karim", Email: "karim@example.com"})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if out.Status != string(lifecycle.InProgress) {
		t.Errorf("status = %q, want inprogress", out.Status)
	}
	if out.Donor == nil || out.Donor.Email != "karim@example.com" {
		t.Errorf("donor not bound: %+v", out.Donor)
	}
}

func TestAssign_DonorRoleDenied(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	fake := newFake(req)
	e := New(fake, zap.NewNop())

	_, err := e.Assign(context.Background(), owner, req.ID, models.DonorRef{Name: "Karim", Email: "k@example.com"})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if fake.writeCalls != 0 {
		t.Error("store write despite role denial")
	}
}

func TestMarkDone_OwnerAllowed(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	req.Status = string(lifecycle.InProgress)
	req.Donor = &models.DonorRef{Name: "Karim", Email: "k@example.com"}
	fake := newFake(req)
	e := New(fake, zap.NewNop())

	out, err := e.MarkDone(context.Background(), owner, req.ID)
	if err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if out.Status != string(lifecycle.Done) {
		t.Errorf("status = %q, want done", out.Status)
	}
	if out.Donor == nil {
		t.Error("donor ref dropped on completion")
	}
}

func TestMarkDone_FromPendingIllegal(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	fake := newFake(req)
	e := New(fake, zap.NewNop())

	vol := actorWith(authz.RoleVolunteer)
	_, err := e.MarkDone(context.Background(), vol, req.ID)
	var ite *lifecycle.IllegalTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("err = %v, want IllegalTransitionError", err)
	}
	if ite.From != lifecycle.Pending || ite.To != lifecycle.Done {
		t.Errorf("edge = %s -> %s", ite.From, ite.To)
	}
	if fake.writeCalls != 0 {
		t.Error("store write attempted for illegal edge")
	}
}

func TestMarkDone_RepeatIllegal(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	req.Status = string(lifecycle.Done)
	e := New(newFake(req), zap.NewNop())

	admin := actorWith(authz.RoleAdmin)
	_, err := e.MarkDone(context.Background(), admin, req.ID)
	var ite *lifecycle.IllegalTransitionError
	if !errors.As(err, &ite) {
		t.Errorf("err = %v, want IllegalTransitionError", err)
	}
}

func TestCancel_AdminOnly(t *testing.T) {
	owner := actorWith(authz.RoleDonor)

	for _, tc := range []struct {
		role    string
		wantErr error
	}{
		{authz.RoleDonor, apperr.ErrForbidden},
		{authz.RoleVolunteer, apperr.ErrForbidden},
		{authz.RoleAdmin, nil},
	} {
		req := pendingReq(owner)
		e := New(newFake(req), zap.NewNop())
		actor := actorWith(tc.role)

		_, err := e.Cancel(context.Background(), actor, req.ID)
		if tc.wantErr == nil {
			if err != nil {
				t.Errorf("%s: Cancel: %v", tc.role, err)
			}
		} else if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: err = %v, want %v", tc.role, err, tc.wantErr)
		}
	}
}

func TestCancel_BlockedAdminDenied(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	fake := newFake(req)
	e := New(fake, zap.NewNop())

	admin := actorWith(authz.RoleAdmin)
	admin.Status = status.Blocked

	_, err := e.Cancel(context.Background(), admin, req.ID)
	if !errors.Is(err, apperr.ErrBlocked) {
		t.Errorf("err = %v, want ErrBlocked", err)
	}
	if fake.writeCalls != 0 {
		t.Error("store write despite blocked status")
	}
}

func TestTransition_LostRaceSurfacesConflict(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	fake := newFake(req)
	fake.updateErr = apperr.ErrConflict
	e := New(fake, zap.NewNop())

	vol := actorWith(authz.RoleVolunteer)
	_, err := e.Assign(context.Background(), vol, req.ID, models.DonorRef{Name: "Karim", Email: "k@example.com"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestEditFields_OwnerPendingOnly(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	e := New(newFake(req), zap.NewNop())

	in := validInput()
	in.RecipientName = "Updated Name"
	out, err := e.EditFields(context.Background(), owner, req.ID, in)
	if err != nil {
		t.Fatalf("EditFields: %v", err)
	}
	if out.RecipientName != "Updated Name" {
		t.Errorf("recipient = %q", out.RecipientName)
	}
}

func TestEditFields_NonPendingForbidden(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	req.Status = string(lifecycle.InProgress)
	fake := newFake(req)
	e := New(fake, zap.NewNop())

	_, err := e.EditFields(context.Background(), owner, req.ID, validInput())
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if fake.writeCalls != 0 {
		t.Error("store write despite edit denial")
	}
}

func TestEditFields_StrangerForbidden(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	e := New(newFake(req), zap.NewNop())

	other := actorWith(authz.RoleDonor)
	_, err := e.EditFields(context.Background(), other, req.ID, validInput())
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestDelete_OwnerPendingOnly(t *testing.T) {
	owner := actorWith(authz.RoleDonor)

	pend := pendingReq(owner)
	e := New(newFake(pend), zap.NewNop())
	if err := e.Delete(context.Background(), owner, pend.ID); err != nil {
		t.Errorf("delete pending: %v", err)
	}

	inprog := pendingReq(owner)
	inprog.Status = string(lifecycle.InProgress)
	e = New(newFake(inprog), zap.NewNop())
	if err := e.Delete(context.Background(), owner, inprog.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("delete inprogress: err = %v, want ErrForbidden", err)
	}
}

func TestDelete_AdminAnyStatus(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	done := pendingReq(owner)
	done.Status = string(lifecycle.Done)
	e := New(newFake(done), zap.NewNop())

	admin := actorWith(authz.RoleAdmin)
	if err := e.Delete(context.Background(), admin, done.ID); err != nil {
		t.Errorf("admin delete done: %v", err)
	}
}

func TestGet_DonorSeesOnlyOwn(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	e := New(newFake(req), zap.NewNop())

	if _, err := e.Get(context.Background(), owner, req.ID); err != nil {
		t.Errorf("owner get: %v", err)
	}

	other := actorWith(authz.RoleDonor)
	if _, err := e.Get(context.Background(), other, req.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("stranger get: err = %v, want ErrForbidden", err)
	}

	vol := actorWith(authz.RoleVolunteer)
	if _, err := e.Get(context.Background(), vol, req.ID); err != nil {
		t.Errorf("volunteer get: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	e := New(newFake(), zap.NewNop())
	admin := actorWith(authz.RoleAdmin)

	_, err := e.Get(context.Background(), admin, primitive.NewObjectID())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListAll_DonorDenied(t *testing.T) {
	e := New(newFake(), zap.NewNop())
	donor := actorWith(authz.RoleDonor)

	_, err := e.ListAll(context.Background(), donor, ListFilter{})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestListMine_ScopedToActor(t *testing.T) {
	a := actorWith(authz.RoleDonor)
	b := actorWith(authz.RoleDonor)
	ra := pendingReq(a)
	rb := pendingReq(b)
	e := New(newFake(ra, rb), zap.NewNop())

	out, err := e.ListMine(context.Background(), a, ListFilter{})
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(out) != 1 || out[0].RequesterID != a.ID {
		t.Errorf("got %d rows, want only actor's own", len(out))
	}
}

func TestTransition_StoreOutage(t *testing.T) {
	owner := actorWith(authz.RoleDonor)
	req := pendingReq(owner)
	fake := newFake(req)
	fake.getErr = apperr.ErrStoreUnavailable
	e := New(fake, zap.NewNop())

	vol := actorWith(authz.RoleVolunteer)
	_, err := e.Assign(context.Background(), vol, req.ID, models.DonorRef{Name: "K", Email: "k@example.com"})
	if !errors.Is(err, apperr.ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}
