package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusDismissed  Status = "dismissed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusDismissed}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

type StatusUpdate struct {
	Status    Status             `bson:"status" json:"status"`
	Message   string             `bson:"message" json:"message"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updated_by"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Complaint struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description" json:"description"`
	User          primitive.ObjectID  `bson:"user" json:"user"`
	Status        Status              `bson:"status" json:"status"`
	Division      *primitive.ObjectID `bson:"division,omitempty" json:"division,omitempty"`
	AssignedTo    *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Location      *Location           `bson:"location,omitempty" json:"location,omitempty"`
	Attachments   []string            `bson:"attachments" json:"attachments"`
	StatusUpdates []StatusUpdate      `bson:"status_updates" json:"status_updates"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// LastUpdate returns the most recent history entry.
func (c *Complaint) LastUpdate() (StatusUpdate, bool) {
	if len(c.StatusUpdates) == 0 {
		return StatusUpdate{}, false
	}
	return c.StatusUpdates[len(c.StatusUpdates)-1], true
}

// Assignment is applied atomically with its history entry.
type Assignment struct {
	Officer  primitive.ObjectID
	Division *primitive.ObjectID
	Entry    StatusUpdate
}
