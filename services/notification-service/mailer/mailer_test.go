package mailer

import (
	"testing"

	"rakshak-women-safety/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapsLink(t *testing.T) {
	assert.Equal(t, "https://www.google.com/maps?q=19.076,72.8777", MapsLink(19.076, 72.8777))
}

func TestSOSAlertOneMessagePerGuardian(t *testing.T) {
	r := NewRenderer("http://localhost:3000")

	messages, err := r.SOSAlert(&queue.SOSEvent{
		User: queue.Recipient{Name: "Asha", Email: "asha@example.com", Phone: "98765"},
		Guardians: []queue.Recipient{
			{Name: "Meera", Email: "meera@example.com"},
			{Name: "No email"},
			{Name: "Ravi", Email: "ravi@example.com"},
		},
		Latitude:  19.076,
		Longitude: 72.8777,
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "meera@example.com", messages[0].To)
	assert.Equal(t, "EMERGENCY ALERT: Asha needs help!", messages[0].Subject)
	assert.Contains(t, messages[0].HTML, "https://www.google.com/maps?q=19.076,72.8777")
	assert.Contains(t, messages[0].HTML, "Phone: 98765")
	assert.NotContains(t, messages[0].HTML, "Address:")
}

func TestStatusUpdateEscapesContent(t *testing.T) {
	r := NewRenderer("http://localhost:3000/")

	msg, err := r.StatusUpdate(&queue.StatusChangeEvent{
		Recipient:      queue.Recipient{Name: "Asha", Email: "asha@example.com"},
		ComplaintTitle: "Stalking <near> station",
		Status:         "in-progress",
		Message:        "Officer assigned",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "Complaint Status Update: Stalking <near> station", msg.Subject)
	assert.Contains(t, msg.HTML, "Stalking &lt;near&gt; station")
	assert.Contains(t, msg.HTML, "http://localhost:3000/complaints")
	assert.Contains(t, msg.HTML, "<strong>New Status:</strong> in-progress")
}
