// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents donors, volunteers, and admins.
//
// Role and status are flat tags; the permission matrix lives in
// internal/app/policy/accesspolicy, not on the record.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`     // donor | volunteer | admin
	Status       string             `bson:"status" json:"status"` // active | blocked

	// Donor profile fields, filled at registration.
	BloodGroup string `bson:"blood_group,omitempty" json:"blood_group,omitempty"`
	District   string `bson:"district,omitempty" json:"district,omitempty"`
	Upazila    string `bson:"upazila,omitempty" json:"upazila,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
