package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Division struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Area      string               `bson:"area" json:"area"`
	City      string               `bson:"city" json:"city"`
	State     string               `bson:"state" json:"state"`
	Officers  []primitive.ObjectID `bson:"police_officers" json:"police_officers"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

func (d *Division) HasOfficer(id primitive.ObjectID) bool {
	for _, officer := range d.Officers {
		if officer == id {
			return true
		}
	}
	return false
}

type DivisionPatch struct {
	Name  *string
	Area  *string
	City  *string
	State *string
}

// Guardian is an emergency contact owned by exactly one user.
type Guardian struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Relationship string             `bson:"relationship" json:"relationship"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email" json:"email"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type GuardianPatch struct {
	Name         *string
	Relationship *string
	Phone        *string
	Email        *string
	Address      *string
}

// SystemState holds one-time initialization flags.
type SystemState struct {
	ID               string    `bson:"_id" json:"id"`
	AdminInitialized bool      `bson:"admin_initialized" json:"admin_initialized"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

const BootstrapStateID = "bootstrap"
