package fundstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/donorhub/internal/domain/apperr"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// Store persists completed funding records. Funds are append-only: the core
// reads them for summary displays and records new ones when the payment
// processor confirms a checkout.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("funds")}
}

// Create records a completed payment.
func (s *Store) Create(ctx context.Context, f models.Fund) (models.Fund, error) {
	f.ID = primitive.NewObjectID()
	f.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Fund{}, fmt.Errorf("%w: insert fund: %v", apperr.ErrStoreUnavailable, err)
	}
	return f, nil
}

// List returns funds newest first.
func (s *Store) List(ctx context.Context, limit, skip int64) ([]models.Fund, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list funds: %v", apperr.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var out []models.Fund
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode funds: %v", apperr.ErrStoreUnavailable, err)
	}
	return out, nil
}

// TotalAmount sums all recorded contributions.
func (s *Store) TotalAmount(ctx context.Context) (int64, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return 0, fmt.Errorf("%w: sum funds: %v", apperr.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, nil
	}
	var row struct {
		Total int64 `bson:"total"`
	}
	if err := cur.Decode(&row); err != nil {
		return 0, fmt.Errorf("%w: decode fund total: %v", apperr.ErrStoreUnavailable, err)
	}
	return row.Total, nil
}
