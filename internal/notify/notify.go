package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNoRecipients is returned by senders asked to deliver a message without recipients.
var ErrNoRecipients = errors.New("notification has no recipients")

const defaultSendTimeout = 30 * time.Second

// Message is one notification.
type Message struct {
	Subject string
	Body    string
	To      []string
	Cc      []string
	// Operator marks notifications meant for administrators rather than staff.
	Operator bool
}

// Sender delivers messages through one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Sink fans notifications out to its senders.
type Sink struct {
	senders     []Sender
	admins      []string
	serviceDesk string
	timeout     time.Duration
}

// NewSink builds a sink delivering operator notifications to admins.
func NewSink(admins []string, serviceDesk string, senders ...Sender) *Sink {
	return &Sink{
		senders:     senders,
		admins:      admins,
		serviceDesk: serviceDesk,
		timeout:     defaultSendTimeout,
	}
}

// Admins notifies the operators.
func (s *Sink) Admins(ctx context.Context, subject, body string) {
	s.Send(ctx, Message{Subject: subject, Body: body, To: s.admins, Operator: true})
}

// Manager notifies a manager, copying the service desk.
func (s *Sink) Manager(ctx context.Context, to, subject, body string) {
	m := Message{Subject: subject, Body: body, To: []string{to}}
	if s.serviceDesk != "" {
		m.Cc = []string{s.serviceDesk}
	}

	s.Send(ctx, m)
}

// Send delivers m through every sender. Failures are logged, never returned.
func (s *Sink) Send(ctx context.Context, m Message) {
	if s == nil {
		return
	}

	for _, sender := range s.senders {
		sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := sender.Send(sendCtx, m)

		cancel()

		if err != nil {
			log.Error().Err(err).Str("sender", sender.Name()).Str("subject", m.Subject).
				Strs("to", m.To).Msg("notification delivery failed")
		}
	}
}

// LogSender writes notifications to the log. Used when no other channel is configured.
type LogSender struct{}

// Name implements Sender.
func (LogSender) Name() string { return "log" }

// Send implements Sender.
func (LogSender) Send(_ context.Context, m Message) error {
	log.Info().Str("subject", m.Subject).Strs("to", m.To).Strs("cc", m.Cc).Bool("operator", m.Operator).
		Msg("notification")

	return nil
}
