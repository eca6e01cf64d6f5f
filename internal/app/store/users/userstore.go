package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"

	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/status"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "donor"|"volunteer"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"blocked"`)
)

// Create inserts a new user after normalizing & validating fields.
// Registration defaults: role donor, status active.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = authz.RoleDonor
	}
	if u.Status == "" {
		u.Status = status.Active
	}

	if !authz.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("%w: insert user: %v", apperr.ErrStoreUnavailable, err)
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user: %v", apperr.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user by email: %v", apperr.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// List returns users newest first, optionally filtered by a folded-text
// search over name and email.
func (s *Store) List(ctx context.Context, search string, limit, skip int64) ([]models.User, error) {
	q := bson.M{}
	if search != "" {
		folded := text.Fold(search)
		q["$or"] = bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": folded}},
			bson.M{"email": bson.M{"$regex": normalize.Email(search)}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", apperr.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode users: %v", apperr.ErrStoreUnavailable, err)
	}
	return out, nil
}

// SetRole changes a user's role. Admin-only; callers gate before invoking.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	if !authz.ValidRole(role) {
		return errBadRole
	}
	return s.setField(ctx, id, "role", role)
}

// SetStatus changes a user's account status. Users are never deleted, only
// blocked; SetStatus is the deactivation mechanism.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	if !status.IsValid(st) {
		return errBadStatus
	}
	return s.setField(ctx, id, "status", st)
}

func (s *Store) setField(ctx context.Context, id primitive.ObjectID, field, value string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("%w: set user %s: %v", apperr.ErrStoreUnavailable, field, err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// PromoteAdminByEmail raises an existing account to admin. Used by the
// startup bootstrap so the configured operator account can manage the rest.
func (s *Store) PromoteAdminByEmail(ctx context.Context, email string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"role": authz.RoleAdmin, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("%w: promote admin: %v", apperr.ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
