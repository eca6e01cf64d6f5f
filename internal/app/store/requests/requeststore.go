package requeststore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/waffle/pantry/text"

	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// Store is the donation-request persistence gateway. It performs no
// authorization or transition validation; all legality checks happen in the
// lifecycle engine and policies before the gateway is invoked.
//
// Transport/persistence failures are wrapped in apperr.ErrStoreUnavailable
// and mongo.ErrNoDocuments maps to apperr.ErrNotFound so callers never see
// driver errors.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donation_requests")}
}

// Create inserts a new request. The caller has already validated fields and
// forced status to pending.
func (s *Store) Create(ctx context.Context, req models.DonationRequest) (models.DonationRequest, error) {
	req.ID = primitive.NewObjectID()
	req.RecipientNameCI = text.Fold(req.RecipientName)

	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.DonationRequest{}, storeErr("insert donation request", err)
	}
	return req, nil
}

// Get loads a request by id.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*models.DonationRequest, error) {
	var req models.DonationRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, storeErr("get donation request", err)
	}
	return &req, nil
}

// Filter narrows ListByFilter. Zero values mean "any".
type Filter struct {
	RequesterID primitive.ObjectID
	Status      lifecycle.Status
	District    string
	BloodGroup  string
	Limit       int64
	Skip        int64
}

// ListByFilter returns requests matching the filter, newest first.
func (s *Store) ListByFilter(ctx context.Context, f Filter) ([]models.DonationRequest, error) {
	q := bson.M{}
	if !f.RequesterID.IsZero() {
		q["requester_id"] = f.RequesterID
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.District != "" {
		q["district"] = f.District
	}
	if f.BloodGroup != "" {
		q["blood_group"] = f.BloodGroup
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, storeErr("list donation requests", err)
	}
	defer cur.Close(ctx)

	var out []models.DonationRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeErr("decode donation requests", err)
	}
	return out, nil
}

// UpdateStatus moves a request from one status to another as a conditional
// update: the write matches only if the stored status still equals from.
// A lost race surfaces as apperr.ErrConflict instead of last-write-wins.
// donor is set when provided (the pending -> inprogress binding) and is
// otherwise left untouched, so done/canceled retain the assigned donor.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.Status, donor *models.DonorRef) error {
	set := bson.M{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if donor != nil {
		set["donor"] = donor
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": set})
	if err != nil {
		return storeErr("update request status", err)
	}
	if res.MatchedCount == 0 {
		// Either the request is gone or its status moved underneath us.
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.ErrNotFound
		} else if err != nil {
			return storeErr("recheck request status", err)
		}
		return apperr.ErrConflict
	}
	return nil
}

// FieldUpdate holds the descriptive fields mutable while a request is
// pending. Ownership/role/status legality is the caller's concern.
type FieldUpdate struct {
	RecipientName  string
	BloodGroup     string
	District       string
	Upazila        string
	HospitalName   string
	FullAddress    string
	DonationDate   string
	DonationTime   string
	RequestMessage string
}

// UpdateFields replaces the descriptive fields of a request.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, upd FieldUpdate) error {
	set := bson.M{
		"recipient_name":    upd.RecipientName,
		"recipient_name_ci": text.Fold(upd.RecipientName),
		"blood_group":       upd.BloodGroup,
		"district":          upd.District,
		"upazila":           upd.Upazila,
		"hospital_name":     upd.HospitalName,
		"full_address":      upd.FullAddress,
		"donation_date":     upd.DonationDate,
		"donation_time":     upd.DonationTime,
		"request_message":   upd.RequestMessage,
		"updated_at":        time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return storeErr("update request fields", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a request permanently.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete donation request", err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperr.ErrStoreUnavailable, op, err)
}
