// internal/domain/models/fund.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fund records a completed monetary contribution. Funds are created when the
// external payment processor confirms a checkout; the core never mutates them.
type Fund struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Amount        int64              `bson:"amount" json:"amount"` // smallest currency unit
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Note          string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
