// Package worker turns queued notification events into emails.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/queue"
	"rakshak-women-safety/services/notification-service/deliverylog"
	"rakshak-women-safety/services/notification-service/mailer"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrMalformed marks a payload that can never be delivered.
	ErrMalformed = errors.New("malformed notification")
	// ErrUndelivered means no recipient received the email.
	ErrUndelivered = errors.New("notification undelivered")
)

// DeliveryLog is satisfied by *deliverylog.Repository.
type DeliveryLog interface {
	Record(ctx context.Context, d *deliverylog.Delivery) error
}

type Worker struct {
	renderer *mailer.Renderer
	sender   mailer.Sender
	log      DeliveryLog
}

func New(renderer *mailer.Renderer, sender mailer.Sender, log DeliveryLog) *Worker {
	return &Worker{renderer: renderer, sender: sender, log: log}
}

func (w *Worker) render(event queue.NotificationEvent) ([]mailer.Message, error) {
	switch event.Type {
	case queue.EventStatusUpdate:
		if event.StatusChange == nil || event.StatusChange.Recipient.Email == "" {
			return nil, fmt.Errorf("%w: status update without recipient", ErrMalformed)
		}
		msg, err := w.renderer.StatusUpdate(event.StatusChange)
		if err != nil {
			return nil, err
		}
		return []mailer.Message{msg}, nil
	case queue.EventSOS:
		if event.SOS == nil {
			return nil, fmt.Errorf("%w: sos without payload", ErrMalformed)
		}
		messages, err := w.renderer.SOSAlert(event.SOS)
		if err != nil {
			return nil, err
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("%w: sos without guardian emails", ErrMalformed)
		}
		return messages, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, event.Type)
	}
}

// Process sends every email for one event. It succeeds when at least one
// recipient was reached, so a partial SOS fan-out is not resent to all.
func (w *Worker) Process(ctx context.Context, body []byte) error {
	var event queue.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	messages, err := w.render(event)
	if err != nil {
		return err
	}

	delivered := 0
	var lastErr error
	for _, msg := range messages {
		entry := &deliverylog.Delivery{
			TraceID:   event.TraceID,
			EventType: event.Type,
			Recipient: msg.To,
			Subject:   msg.Subject,
			Status:    deliverylog.StatusSent,
		}
		if err := w.sender.Send(msg); err != nil {
			lastErr = err
			entry.Status = deliverylog.StatusFailed
			entry.Error = err.Error()
			middleware.LogError(event.TraceID, "Email delivery failed", err)
		} else {
			delivered++
		}
		middleware.NotificationsTotal.WithLabelValues(event.Type, entry.Status).Inc()

		if w.log != nil {
			if err := w.log.Record(ctx, entry); err != nil {
				middleware.LogWarn(event.TraceID, "Failed to record delivery", err)
			}
		}
	}

	if delivered == 0 {
		return fmt.Errorf("%w: %v", ErrUndelivered, lastErr)
	}
	middleware.LogInfo(event.TraceID, fmt.Sprintf("%s delivered to %d of %d recipients", event.Type, delivered, len(messages)))
	return nil
}

// Handle settles d: ack on success, drop malformed payloads, and requeue
// a failed delivery once.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) error {
	err := w.Process(ctx, d.Body)
	switch {
	case err == nil:
		return d.Ack(false)
	case errors.Is(err, ErrMalformed):
		middleware.LogWarn("", "Dropping malformed notification", err)
		return d.Nack(false, false)
	default:
		return d.Nack(false, !d.Redelivered)
	}
}

// Run handles deliveries until msgs closes or ctx is done.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			if err := w.Handle(ctx, d); err != nil {
				middleware.LogError("", "Failed to settle delivery", err)
			}
		}
	}
}
