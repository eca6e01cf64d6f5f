package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and active status.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: "password",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateRequest inserts a pending donation request owned by the given user.
func (f *Fixtures) CreateRequest(ctx context.Context, owner models.User) models.DonationRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.DonationRequest{
		ID:              primitive.NewObjectID(),
		RequesterID:     owner.ID,
		RequesterEmail:  owner.Email,
		RecipientName:   "Test Recipient",
		RecipientNameCI: text.Fold("Test Recipient"),
		BloodGroup:      "O+",
		District:        "Dhaka",
		Upazila:         "Savar",
		HospitalName:    "Test Hospital",
		DonationDate:    "2026-09-15",
		DonationTime:    "10:30",
		Status:          string(lifecycle.Pending),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("donation_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return req
}

// CreateFund inserts a completed funding record.
func (f *Fixtures) CreateFund(ctx context.Context, name, email string, amount int64, txnID string) models.Fund {
	f.t.Helper()

	fund := models.Fund{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Email:         email,
		Amount:        amount,
		TransactionID: txnID,
		CreatedAt:     time.Now().UTC(),
	}

	if _, err := f.db.Collection("funds").InsertOne(ctx, fund); err != nil {
		f.t.Fatalf("failed to create test fund: %v", err)
	}
	return fund
}
