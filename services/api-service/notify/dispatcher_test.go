package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/queue"
	"rakshak-women-safety/services/api-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []queue.NotificationEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, payload interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, payload.(queue.NotificationEvent))
	return nil
}

func TestNotifyStatusChangePublishesEvent(t *testing.T) {
	pub := &capturePublisher{}
	d := NewQueueDispatcher(pub)
	ctx := context.Background()

	user := &models.User{Name: "Asha", Email: "asha@example.com"}
	result, err := d.NotifyStatusChange(ctx, user, "Harassment at station", models.StatusResolved, "Case closed")
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, queue.EventStatusUpdate, event.Type)
	require.NotNil(t, event.StatusChange)
	assert.Equal(t, "asha@example.com", event.StatusChange.Recipient.Email)
	assert.Equal(t, "resolved", event.StatusChange.Status)
	assert.Nil(t, event.SOS)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestPublishFailureIsDependencyError(t *testing.T) {
	d := NewQueueDispatcher(&capturePublisher{err: errors.New("channel closed")})

	result, err := d.NotifyStatusChange(context.Background(), &models.User{Email: "a@example.com"}, "t", models.StatusPending, "m")
	assert.False(t, result.Success)
	assert.True(t, apperror.Is(err, apperror.KindDependency))
}

func TestNotifySOSSkipsGuardiansWithoutEmail(t *testing.T) {
	pub := &capturePublisher{}
	d := NewQueueDispatcher(pub)

	guardians := []models.Guardian{
		{Name: "Mother", Email: "mother@example.com"},
		{Name: "Neighbour"},
	}
	result, err := d.NotifySOS(context.Background(), &models.User{Name: "Asha", Email: "asha@example.com"}, guardians,
		models.Location{Latitude: 19.07, Longitude: 72.87})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Recipients)

	require.Len(t, pub.events, 1)
	assert.Equal(t, 19.07, pub.events[0].SOS.Latitude)
	assert.Len(t, pub.events[0].SOS.Guardians, 1)

	_, err = d.NotifySOS(context.Background(), &models.User{}, []models.Guardian{{Name: "x"}}, models.Location{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestTraceIDIsCarried(t *testing.T) {
	pub := &capturePublisher{}
	d := NewQueueDispatcher(pub)

	handler := middleware.TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := d.NotifyStatusChange(r.Context(), &models.User{Email: "a@example.com"}, "t", models.StatusPending, "m")
		require.NoError(t, err)
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/complaints/1/status", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "trace-123", pub.events[0].TraceID)
}
