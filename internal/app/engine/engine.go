// Package engine orchestrates every donation-request operation: it runs the
// access gate, the per-request policy, and the state machine in that order,
// and only then touches the store. A denied actor never reaches persistence.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/donorhub/internal/app/policy/accesspolicy"
	"github.com/dalemusser/donorhub/internal/app/policy/requestpolicy"
	requeststore "github.com/dalemusser/donorhub/internal/app/store/requests"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/bloodgroups"
	"github.com/dalemusser/donorhub/internal/app/system/geodata"
	"github.com/dalemusser/donorhub/internal/app/system/sanitize"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// Gateway is the persistence surface the engine drives. requeststore.Store
// satisfies it; tests substitute a fake.
type Gateway interface {
	Create(ctx context.Context, req models.DonationRequest) (models.DonationRequest, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.DonationRequest, error)
	ListByFilter(ctx context.Context, f requeststore.Filter) ([]models.DonationRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, donor *models.DonorRef) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, upd requeststore.FieldUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Engine applies policy and lifecycle rules ahead of every store call.
type Engine struct {
	store Gateway
	log   *zap.Logger
}

func New(store Gateway, logger *zap.Logger) *Engine {
	return &Engine{store: store, log: logger}
}

// ValidationError reports a rejected input field. Handlers map it to a 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// RequestInput holds the descriptive fields a requester supplies on create
// and edit. Identity and status are never caller-supplied.
type RequestInput struct {
	RecipientName  string
	BloodGroup     string
	District       string
	Upazila        string
	HospitalName   string
	FullAddress    string
	DonationDate   string // YYYY-MM-DD
	DonationTime   string // HH:MM
	RequestMessage string
}

// validate normalizes and checks the input in place.
func (in *RequestInput) validate() error {
	in.RecipientName = sanitize.Text(in.RecipientName)
	if in.RecipientName == "" {
		return &ValidationError{Field: "recipient_name", Msg: "required"}
	}

	in.BloodGroup = bloodgroups.Normalize(in.BloodGroup)
	if !bloodgroups.IsValid(in.BloodGroup) {
		return &ValidationError{Field: "blood_group", Msg: "unknown blood group"}
	}

	if !geodata.ValidDistrict(in.District) {
		return &ValidationError{Field: "district", Msg: "unknown district"}
	}
	if !geodata.ValidUpazila(in.District, in.Upazila) {
		return &ValidationError{Field: "upazila", Msg: "not in district"}
	}

	in.HospitalName = sanitize.Text(in.HospitalName)
	if in.HospitalName == "" {
		return &ValidationError{Field: "hospital_name", Msg: "required"}
	}
	in.FullAddress = sanitize.Text(in.FullAddress)

	if _, err := time.Parse("2006-01-02", in.DonationDate); err != nil {
		return &ValidationError{Field: "donation_date", Msg: "want YYYY-MM-DD"}
	}
	if _, err := time.Parse("15:04", in.DonationTime); err != nil {
		return &ValidationError{Field: "donation_time", Msg: "want HH:MM"}
	}

	in.RequestMessage = sanitize.Text(in.RequestMessage)
	return nil
}

// Create opens a new request for the actor. Status is forced to pending.
func (e *Engine) Create(ctx context.Context, actor authz.Actor, in RequestInput) (models.DonationRequest, error) {
	if err := accesspolicy.Check(actor, accesspolicy.RequestCreate); err != nil {
		return models.DonationRequest{}, err
	}
	if err := in.validate(); err != nil {
		return models.DonationRequest{}, err
	}

	req := models.DonationRequest{
		RequesterID:    actor.ID,
		RequesterEmail: actor.Email,
		RecipientName:  in.RecipientName,
		BloodGroup:     in.BloodGroup,
		District:       in.District,
		Upazila:        in.Upazila,
		HospitalName:   in.HospitalName,
		FullAddress:    in.FullAddress,
		DonationDate:   in.DonationDate,
		DonationTime:   in.DonationTime,
		RequestMessage: in.RequestMessage,
		Status:         string(lifecycle.Pending),
	}

	created, err := e.store.Create(ctx, req)
	if err != nil {
		return models.DonationRequest{}, err
	}

	e.log.Info("donation request created",
		zap.String("request_id", created.ID.Hex()),
		zap.String("requester_id", actor.ID.Hex()),
		zap.String("blood_group", created.BloodGroup),
		zap.String("district", created.District))
	return created, nil
}

// Get returns one request the actor may view.
func (e *Engine) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*models.DonationRequest, error) {
	if err := accesspolicy.Check(actor, accesspolicy.RequestViewOwn); err != nil {
		return nil, err
	}
	req, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requestpolicy.CanView(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListFilter narrows list queries. Status/district/group empty means any.
type ListFilter struct {
	Status     string
	District   string
	BloodGroup string
	Limit      int64
	Skip       int64
}

func (f ListFilter) store() (requeststore.Filter, error) {
	out := requeststore.Filter{
		District:   f.District,
		BloodGroup: f.BloodGroup,
		Limit:      f.Limit,
		Skip:       f.Skip,
	}
	if f.Status != "" {
		st, err := lifecycle.Parse(f.Status)
		if err != nil {
			return out, &ValidationError{Field: "status", Msg: "unknown status"}
		}
		out.Status = st
	}
	return out, nil
}

// ListMine returns the actor's own requests.
func (e *Engine) ListMine(ctx context.Context, actor authz.Actor, f ListFilter) ([]models.DonationRequest, error) {
	if err := accesspolicy.Check(actor, accesspolicy.RequestViewOwn); err != nil {
		return nil, err
	}
	sf, err := f.store()
	if err != nil {
		return nil, err
	}
	sf.RequesterID = actor.ID
	return e.store.ListByFilter(ctx, sf)
}

// ListAll returns requests across all requesters. Volunteer/admin only.
func (e *Engine) ListAll(ctx context.Context, actor authz.Actor, f ListFilter) ([]models.DonationRequest, error) {
	if err := accesspolicy.Check(actor, accesspolicy.RequestViewAll); err != nil {
		return nil, err
	}
	sf, err := f.store()
	if err != nil {
		return nil, err
	}
	return e.store.ListByFilter(ctx, sf)
}

// Assign moves pending -> inprogress and binds the donor.
func (e *Engine) Assign(ctx context.Context, actor authz.Actor, id primitive.ObjectID, donor models.DonorRef) (*models.DonationRequest, error) {
	donor.Name = sanitize.Text(donor.Name)
	if donor.Name == "" || donor.Email == "" {
		return nil, &ValidationError{Field: "donor", Msg: "name and email required"}
	}
	return e.transition(ctx, actor, accesspolicy.RequestAssign, id, lifecycle.InProgress, &donor)
}

// MarkDone moves inprogress -> done.
func (e *Engine) MarkDone(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*models.DonationRequest, error) {
	return e.transition(ctx, actor, accesspolicy.RequestDone, id, lifecycle.Done, nil)
}

// Cancel forecloses the request from pending or inprogress.
func (e *Engine) Cancel(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*models.DonationRequest, error) {
	return e.transition(ctx, actor, accesspolicy.RequestCancel, id, lifecycle.Canceled, nil)
}

// transition runs the full gauntlet for a status move: action gate, record
// load, ownership gating, edge legality, then the conditional write.
func (e *Engine) transition(ctx context.Context, actor authz.Actor, action accesspolicy.Action, id primitive.ObjectID, to lifecycle.Status, donor *models.DonorRef) (*models.DonationRequest, error) {
	if err := accesspolicy.Check(actor, action); err != nil {
		return nil, err
	}

	req, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requestpolicy.CanTransition(actor, req, to); err != nil {
		return nil, err
	}

	from := lifecycle.Status(req.Status)
	if err := lifecycle.CheckTransition(from, to); err != nil {
		return nil, err
	}

	if err := e.store.UpdateStatus(ctx, id, from, to, donor); err != nil {
		return nil, err
	}

	e.log.Info("donation request transitioned",
		zap.String("request_id", id.Hex()),
		zap.String("actor_id", actor.ID.Hex()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	req.Status = string(to)
	if donor != nil {
		req.Donor = donor
	}
	return req, nil
}

// EditFields rewrites the descriptive fields of a pending request.
func (e *Engine) EditFields(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in RequestInput) (*models.DonationRequest, error) {
	if err := accesspolicy.Check(actor, accesspolicy.RequestEdit); err != nil {
		return nil, err
	}

	req, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requestpolicy.CanEditFields(actor, req); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	upd := requeststore.FieldUpdate{
		RecipientName:  in.RecipientName,
		BloodGroup:     in.BloodGroup,
		District:       in.District,
		Upazila:        in.Upazila,
		HospitalName:   in.HospitalName,
		FullAddress:    in.FullAddress,
		DonationDate:   in.DonationDate,
		DonationTime:   in.DonationTime,
		RequestMessage: in.RequestMessage,
	}
	if err := e.store.UpdateFields(ctx, id, upd); err != nil {
		return nil, err
	}

	e.log.Info("donation request edited",
		zap.String("request_id", id.Hex()),
		zap.String("actor_id", actor.ID.Hex()))

	req.RecipientName = in.RecipientName
	req.BloodGroup = in.BloodGroup
	req.District = in.District
	req.Upazila = in.Upazila
	req.HospitalName = in.HospitalName
	req.FullAddress = in.FullAddress
	req.DonationDate = in.DonationDate
	req.DonationTime = in.DonationTime
	req.RequestMessage = in.RequestMessage
	return req, nil
}

// Delete removes a request permanently.
func (e *Engine) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if err := accesspolicy.Check(actor, accesspolicy.RequestDelete); err != nil {
		return err
	}

	req, err := e.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requestpolicy.CanDelete(actor, req); err != nil {
		return err
	}

	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}

	e.log.Info("donation request deleted",
		zap.String("request_id", id.Hex()),
		zap.String("actor_id", actor.ID.Hex()),
		zap.String("status", req.Status))
	return nil
}
