package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/donorhub/internal/app/engine"
	requeststore "github.com/dalemusser/donorhub/internal/app/store/requests"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/status"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// memGateway is an in-memory engine.Gateway for handler tests.
type memGateway struct {
	reqs map[primitive.ObjectID]*models.DonationRequest
}

func newMemGateway(reqs ...*models.DonationRequest) *memGateway {
	g := &memGateway{reqs: map[primitive.ObjectID]*models.DonationRequest{}}
	for _, r := range reqs {
		g.reqs[r.ID] = r
	}
	return g
}

func (g *memGateway) Create(_ context.Context, req models.DonationRequest) (models.DonationRequest, error) {
	req.ID = primitive.NewObjectID()
	cp := req
	g.reqs[req.ID] = &cp
	return req, nil
}

func (g *memGateway) Get(_ context.Context, id primitive.ObjectID) (*models.DonationRequest, error) {
	r, ok := g.reqs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (g *memGateway) ListByFilter(_ context.Context, f requeststore.Filter) ([]models.DonationRequest, error) {
	var out []models.DonationRequest
	for _, r := range g.reqs {
		if !f.RequesterID.IsZero() && r.RequesterID != f.RequesterID {
			continue
		}
		if f.Status != "" && r.Status != string(f.Status) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (g *memGateway) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to lifecycle.Status, donor *models.DonorRef) error {
	r, ok := g.reqs[id]
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

func (g *memGateway) UpdateFields(_ context.Context, id primitive.ObjectID, upd requeststore.FieldUpdate) error {
	r, ok := g.reqs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	r.RecipientName = upd.RecipientName
	return nil
}

func (g *memGateway) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := g.reqs[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(g.reqs, id)
	return nil
}

func newRouter(t *testing.T, gw engine.Gateway) http.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "donorhub_test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := NewHandler(engine.New(gw, zap.NewNop()), nil, zap.NewNop())
	return Routes(h, sm)
}

func sessionUser(actor authz.Actor) *auth.SessionUser {
	return &auth.SessionUser{
		ID:     actor.ID.Hex(),
		Name:   actor.Name,
		Email:  actor.Email,
		Role:   actor.Role,
		Status: actor.Status,
	}
}

func testActor(role string) authz.Actor {
	return authz.Actor{
		ID:     primitive.NewObjectID(),
		Name:   "Test User",
		Email:  role + "@example.com",
		Role:   role,
		Status: status.Active,
	}
}

func seedPending(owner authz.Actor) *models.DonationRequest {
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

func do(t *testing.T, handler http.Handler, actor *authz.Actor, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if actor != nil {
		req = auth.WithTestUser(req, sessionUser(*actor))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreate_Success(t *testing.T) {
	donor := testActor(authz.RoleDonor)
	router := newRouter(t, newMemGateway())

	rec := do(t, router, &donor, http.MethodPost, "/", map[string]string{
		"recipient_name": "Rahim Uddin",
		"blood_group":    "o+",
		"district":       "Dhaka",
		"upazila":        "Savar",
		"hospital_name":  "Enam Medical",
		"donation_date":  "2026-09-15",
		"donation_time":  "10:30",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out models.DonationRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "pending" {
		t.Errorf("status = %q, want pending", out.Status)
	}
	if out.BloodGroup != "O+" {
		t.Errorf("blood group = %q, want normalized O+", out.BloodGroup)
	}
}

func TestCreate_Anonymous401(t *testing.T) {
	router := newRouter(t, newMemGateway())
	rec := do(t, router, nil, http.MethodPost, "/", map[string]string{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreate_Invalid400(t *testing.T) {
	donor := testActor(authz.RoleDonor)
	router := newRouter(t, newMemGateway())

	rec := do(t, router, &donor, http.MethodPost, "/", map[string]string{
		"recipient_name": "Rahim",
		"blood_group":    "Q+",
		"district":       "Dhaka",
		"upazila":        "Savar",
		"hospital_name":  "Enam",
		"donation_date":  "2026-09-15",
		"donation_time":  "10:30",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
	}
}

func TestAssign_VolunteerSucceeds(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	router := newRouter(t, newMemGateway(req))

	vol := testActor(authz.RoleVolunteer)
	rec := do(t, router, &vol, http.MethodPost, "/"+req.ID.Hex()+"/assign", map[string]string{
		"donor_name":  "Karim",
		"donor_email": "karim@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out models.DonationRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "inprogress" || out.Donor == nil {
		t.Errorf("got status %q donor %v", out.Status, out.Donor)
	}
}

func TestAssign_DonorForbidden(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	router := newRouter(t, newMemGateway(req))

	rec := do(t, router, &owner, http.MethodPost, "/"+req.ID.Hex()+"/assign", map[string]string{
		"donor_name":  "Karim",
		"donor_email": "karim@example.com",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestDone_FromPending422(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	router := newRouter(t, newMemGateway(req))

	vol := testActor(authz.RoleVolunteer)
	rec := do(t, router, &vol, http.MethodPost, "/"+req.ID.Hex()+"/done", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422; body = %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error != "illegal_transition" {
		t.Errorf("error code = %q", env.Error)
	}
}

func TestCancel_BlockedAdmin403(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	router := newRouter(t, newMemGateway(req))

	admin := testActor(authz.RoleAdmin)
	admin.Status = status.Blocked
	rec := do(t, router, &admin, http.MethodPost, "/"+req.ID.Hex()+"/cancel", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error != "blocked" {
		t.Errorf("error code = %q, want blocked", env.Error)
	}
}

func TestGet_StrangerForbidden(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	router := newRouter(t, newMemGateway(req))

	other := testActor(authz.RoleDonor)
	rec := do(t, router, &other, http.MethodGet, "/"+req.ID.Hex(), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestGet_MalformedID404(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	router := newRouter(t, newMemGateway())

	rec := do(t, router, &owner, http.MethodGet, "/not-an-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListAll_Donor403(t *testing.T) {
	donor := testActor(authz.RoleDonor)
	router := newRouter(t, newMemGateway())

	rec := do(t, router, &donor, http.MethodGet, "/all", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestListMine_ReturnsOnlyOwn(t *testing.T) {
	a := testActor(authz.RoleDonor)
	b := testActor(authz.RoleDonor)
	router := newRouter(t, newMemGateway(seedPending(a), seedPending(b)))

	rec := do(t, router, &a, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var out struct {
		Items   []models.DonationRequest `json:"items"`
		HasNext bool                     `json:"has_next"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 1 {
		t.Errorf("items = %d, want 1", len(out.Items))
	}
}

func TestDelete_OwnerPending204(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	router := newRouter(t, newMemGateway(req))

	rec := do(t, router, &owner, http.MethodDelete, "/"+req.ID.Hex(), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestDelete_OwnerInProgress403(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	req.Status = string(lifecycle.InProgress)
	router := newRouter(t, newMemGateway(req))

	rec := do(t, router, &owner, http.MethodDelete, "/"+req.ID.Hex(), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestEdit_NonPending403(t *testing.T) {
	owner := testActor(authz.RoleDonor)
	req := seedPending(owner)
	req.Status = string(lifecycle.Done)
	router := newRouter(t, newMemGateway(req))

	rec := do(t, router, &owner, http.MethodPut, "/"+req.ID.Hex(), map[string]string{
		"recipient_name": "Updated",
		"blood_group":    "O+",
		"district":       "Dhaka",
		"upazila":        "Savar",
		"hospital_name":  "Enam Medical",
		"donation_date":  "2026-09-15",
		"donation_time":  "10:30",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
