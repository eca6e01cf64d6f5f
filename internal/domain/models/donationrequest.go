// internal/domain/models/donationrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonorRef identifies the human donor bound to a request when a volunteer
// or admin moves it to inprogress.
type DonorRef struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// DonationRequest is a recipient's plea for blood. RequesterID and
// RequesterEmail are immutable after creation. Status moves through the
// lifecycle package's state machine; Donor is set exactly when the request
// enters inprogress and is retained in done/canceled for the fulfillment
// record.
type DonationRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID    primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	RequesterEmail string             `bson:"requester_email" json:"requester_email"`

	RecipientName   string `bson:"recipient_name" json:"recipient_name"`
	RecipientNameCI string `bson:"recipient_name_ci" json:"-"`
	BloodGroup      string `bson:"blood_group" json:"blood_group"`
	District        string `bson:"district" json:"district"`
	Upazila         string `bson:"upazila" json:"upazila"`
	HospitalName    string `bson:"hospital_name" json:"hospital_name"`
	FullAddress     string `bson:"full_address" json:"full_address"`
	DonationDate    string `bson:"donation_date" json:"donation_date"` // YYYY-MM-DD
	DonationTime    string `bson:"donation_time" json:"donation_time"` // HH:MM
	RequestMessage  string `bson:"request_message" json:"request_message"`

	Status string    `bson:"status" json:"status"` // pending | inprogress | done | canceled
	Donor  *DonorRef `bson:"donor,omitempty" json:"donor,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
