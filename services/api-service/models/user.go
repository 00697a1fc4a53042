package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser   Role = "user"
	RolePolice Role = "police"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePolice, RoleAdmin:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64   `bson:"latitude" json:"latitude"`
	Longitude float64   `bson:"longitude" json:"longitude"`
	Timestamp time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name             string               `bson:"name" json:"name"`
	Email            string               `bson:"email" json:"email"`
	Password         string               `bson:"password" json:"-"`
	Phone            string               `bson:"phone" json:"phone"`
	Role             Role                 `bson:"role" json:"role"`
	Address          string               `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContact string               `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	ProfilePicture   string               `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	Division         *primitive.ObjectID  `bson:"division,omitempty" json:"division,omitempty"`
	CurrentLocation  *Location            `bson:"current_location,omitempty" json:"current_location,omitempty"`
	Guardians        []primitive.ObjectID `bson:"guardians" json:"guardians"`
	Active           bool                 `bson:"active" json:"active"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}

// Actor returns the identity triple access checks are evaluated against.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Division: u.Division}
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	ID       primitive.ObjectID
	Role     Role
	Division *primitive.ObjectID
}

// UserPatch holds the fields an update may change. Nil fields are left as is.
// Division membership is changed through the division package only.
type UserPatch struct {
	Name             *string
	Email            *string
	Phone            *string
	Role             *Role
	Address          *string
	EmergencyContact *string
	ProfilePicture   *string
	Active           *bool
	CurrentLocation  *Location
}

// SameID reports whether the optional id a is set and equal to b.
func SameID(a *primitive.ObjectID, b primitive.ObjectID) bool {
	return a != nil && *a == b
}

// SameOptionalID reports whether a and b are both set and equal.
func SameOptionalID(a, b *primitive.ObjectID) bool {
	return a != nil && b != nil && *a == *b
}
