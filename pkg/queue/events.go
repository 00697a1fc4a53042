package queue

import "time"

const (
	EventStatusUpdate = "status_update"
	EventSOS          = "sos"
)

// Recipient is a person an email is addressed to or about.
type Recipient struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type StatusChangeEvent struct {
	Recipient      Recipient `json:"recipient"`
	ComplaintTitle string    `json:"complaint_title"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
}

type SOSEvent struct {
	User      Recipient   `json:"user"`
	Guardians []Recipient `json:"guardians"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
}

// NotificationEvent is the envelope published to the notifications queue.
// Exactly one of StatusChange or SOS is set, matching Type.
type NotificationEvent struct {
	Type         string             `json:"type"`
	TraceID      string             `json:"trace_id,omitempty"`
	StatusChange *StatusChangeEvent `json:"status_change,omitempty"`
	SOS          *SOSEvent          `json:"sos,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
