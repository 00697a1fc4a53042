// Package notify hands notification work to the notification-service
// through the durable notifications queue.
package notify

import (
	"context"
	"time"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/queue"
	"rakshak-women-safety/services/api-service/models"
)

// Result reports whether a notification was accepted for delivery.
type Result struct {
	Success    bool `json:"success"`
	Recipients int  `json:"recipients"`
}

// Dispatcher is best effort. Callers log a failure and carry on.
type Dispatcher interface {
	NotifyStatusChange(ctx context.Context, user *models.User, complaintTitle string, status models.Status, message string) (Result, error)
	NotifySOS(ctx context.Context, user *models.User, guardians []models.Guardian, location models.Location) (Result, error)
}

// Publisher is satisfied by *queue.Publisher.
type Publisher interface {
	Publish(ctx context.Context, payload interface{}) error
}

type QueueDispatcher struct {
	publisher Publisher
	now       func() time.Time
}

func NewQueueDispatcher(publisher Publisher) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher, now: time.Now}
}

func recipientOf(u *models.User) queue.Recipient {
	return queue.Recipient{Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address}
}

func (d *QueueDispatcher) publish(ctx context.Context, event queue.NotificationEvent) error {
	event.TraceID = middleware.TraceIDFromContext(ctx)
	event.CreatedAt = d.now()

	if err := d.publisher.Publish(ctx, event); err != nil {
		middleware.NotificationsTotal.WithLabelValues(event.Type, "failed").Inc()
		return err
	}
	middleware.NotificationsTotal.WithLabelValues(event.Type, "queued").Inc()
	return nil
}

func (d *QueueDispatcher) NotifyStatusChange(ctx context.Context, user *models.User, complaintTitle string, status models.Status, message string) (Result, error) {
	if user == nil || user.Email == "" {
		return Result{}, apperror.Validation("Notification recipient has no email")
	}

	err := d.publish(ctx, queue.NotificationEvent{
		Type: queue.EventStatusUpdate,
		StatusChange: &queue.StatusChangeEvent{
			Recipient:      recipientOf(user),
			ComplaintTitle: complaintTitle,
			Status:         string(status),
			Message:        message,
		},
	})
	if err != nil {
		return Result{}, apperror.Dependency(err, "Failed to queue status update email")
	}
	return Result{Success: true, Recipients: 1}, nil
}

func (d *QueueDispatcher) NotifySOS(ctx context.Context, user *models.User, guardians []models.Guardian, location models.Location) (Result, error) {
	recipients := make([]queue.Recipient, 0, len(guardians))
	for _, g := range guardians {
		if g.Email == "" {
			continue
		}
		recipients = append(recipients, queue.Recipient{Name: g.Name, Email: g.Email, Phone: g.Phone})
	}
	if len(recipients) == 0 {
		return Result{}, apperror.Validation("No guardian has an email address")
	}

	err := d.publish(ctx, queue.NotificationEvent{
		Type: queue.EventSOS,
		SOS: &queue.SOSEvent{
			User:      recipientOf(user),
			Guardians: recipients,
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
		},
	})
	if err != nil {
		return Result{}, apperror.Dependency(err, "Failed to queue SOS alert")
	}
	return Result{Success: true, Recipients: len(recipients)}, nil
}

// Recorder keeps every notification in memory. It backs tests and
// local runs without a broker.
type Recorder struct {
	StatusChanges []StatusChange
	SOSAlerts     []SOSAlert
	// Fail makes every call return a dependency error after recording it.
	Fail error
}

type StatusChange struct {
	Email   string
	Title   string
	Status  models.Status
	Message string
}

type SOSAlert struct {
	Email     string
	Guardians int
	Location  models.Location
}

func (r *Recorder) NotifyStatusChange(_ context.Context, user *models.User, complaintTitle string, status models.Status, message string) (Result, error) {
	email := ""
	if user != nil {
		email = user.Email
	}
	r.StatusChanges = append(r.StatusChanges, StatusChange{Email: email, Title: complaintTitle, Status: status, Message: message})
	if r.Fail != nil {
		return Result{}, apperror.Dependency(r.Fail, "Failed to queue status update email")
	}
	return Result{Success: true, Recipients: 1}, nil
}

func (r *Recorder) NotifySOS(_ context.Context, user *models.User, guardians []models.Guardian, location models.Location) (Result, error) {
	r.SOSAlerts = append(r.SOSAlerts, SOSAlert{Email: user.Email, Guardians: len(guardians), Location: location})
	if r.Fail != nil {
		return Result{}, apperror.Dependency(r.Fail, "Failed to queue SOS alert")
	}
	return Result{Success: true, Recipients: len(guardians)}, nil
}
