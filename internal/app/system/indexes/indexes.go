// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureDonationRequests(ctx, db); err != nil {
		problems = append(problems, "donation_requests: "+err.Error())
	}
	if err := ensureFunds(ctx, db); err != nil {
		problems = append(problems, "funds: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("full_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("role_status"),
		},
	})
	return err
}

func ensureDonationRequests(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("donation_requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("requester_status"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "district", Value: 1},
				{Key: "blood_group", Value: 1},
			},
			Options: options.Index().SetName("status_district_group"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	})
	return err
}

func ensureFunds(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("funds").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_transaction"),
		},
	})
	return err
}
