package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	declareErr error
	publishErr error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func TestPublisherSendsPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	pub := NewPublisher(ch, "notifications")

	event := NotificationEvent{
		Type: EventStatusUpdate,
		StatusChange: &StatusChangeEvent{
			Recipient:      Recipient{Name: "Asha", Email: "asha@example.com"},
			ComplaintTitle: "Harassment at station",
			Status:         "resolved",
			Message:        "Case closed",
		},
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"notifications"}, ch.declared)
	assert.Equal(t, []string{"notifications"}, ch.keys)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	var decoded NotificationEvent
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, "resolved", decoded.StatusChange.Status)
	assert.Nil(t, decoded.SOS)
}

func TestPublishWrapsErrors(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("channel closed")}
	err := PublishMessage(context.Background(), ch, "notifications", NotificationEvent{Type: EventSOS})
	assert.ErrorContains(t, err, "failed to declare queue")

	ch = &fakeChannel{publishErr: errors.New("flow control")}
	err = PublishMessage(context.Background(), ch, "notifications", NotificationEvent{Type: EventSOS})
	assert.ErrorContains(t, err, "failed to publish message")
}
