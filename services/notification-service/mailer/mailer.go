// Package mailer renders notification emails and sends them over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"strings"

	"rakshak-women-safety/pkg/queue"

	"gopkg.in/gomail.v2"
)

// Message is one rendered email for a single recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(msg Message) error
}

// MapsLink points at the given coordinates on Google Maps.
func MapsLink(latitude, longitude float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", latitude, longitude)
}

type Renderer struct {
	clientURL string
}

func NewRenderer(clientURL string) *Renderer {
	return &Renderer{clientURL: strings.TrimRight(clientURL, "/")}
}

func (r *Renderer) StatusUpdate(event *queue.StatusChangeEvent) (Message, error) {
	var body bytes.Buffer
	err := statusTemplate.Execute(&body, struct {
		*queue.StatusChangeEvent
		ComplaintsLink string
	}{event, r.clientURL + "/complaints"})
	if err != nil {
		return Message{}, fmt.Errorf("render status update: %w", err)
	}
	return Message{
		To:      event.Recipient.Email,
		Subject: "Complaint Status Update: " + event.ComplaintTitle,
		HTML:    body.String(),
	}, nil
}

// SOSAlert renders one message per guardian with an email address.
func (r *Renderer) SOSAlert(event *queue.SOSEvent) ([]Message, error) {
	var body bytes.Buffer
	err := sosTemplate.Execute(&body, struct {
		User     queue.Recipient
		MapsLink string
	}{event.User, MapsLink(event.Latitude, event.Longitude)})
	if err != nil {
		return nil, fmt.Errorf("render sos alert: %w", err)
	}

	subject := fmt.Sprintf("EMERGENCY ALERT: %s needs help!", event.User.Name)
	messages := make([]Message, 0, len(event.Guardians))
	for _, g := range event.Guardians {
		if g.Email == "" {
			continue
		}
		messages = append(messages, Message{To: g.Email, Subject: subject, HTML: body.String()})
	}
	return messages, nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
