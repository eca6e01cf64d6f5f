package userstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// Fetcher implements auth.UserFetcher: the role & status resolver. It loads
// fresh role/status on each request so admin changes and blocks take effect
// immediately, and distinguishes "no record yet" (safe donor/active default
// applied by the session layer) from "lookup failed" (ErrResolutionFailed,
// never a default).
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID.
//
//	found            -> (*SessionUser, nil)
//	no record yet    -> (nil, nil)
//	lookup failure   -> (nil, error wrapping apperr.ErrResolutionFailed)
func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		// Malformed session subject. Fail closed as a resolution failure
		// rather than handing out the permissive default.
		return nil, fmt.Errorf("%w: malformed user id %q", apperr.ErrResolutionFailed, userID)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"full_name": 1,
		"email":     1,
		"role":      1,
		"status":    1,
	})

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrResolutionFailed, err)
	}

	return &auth.SessionUser{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Role:   normalize.Role(u.Role),
		Status: u.Status,
	}, nil
}
