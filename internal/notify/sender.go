// Package notify delivers the practice's outbound email: the message sent to
// the team when a visitor submits a contact request.
package notify

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Email is one outbound HTML message.
type Email struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers an Email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// ErrNoRecipients is returned for an Email without any To address.
var ErrNoRecipients = errors.New("notify: no recipients")

var emailsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notify_emails_total",
		Help: "Outbound emails by sender and result.",
	},
	[]string{"sender", "result"},
)

func init() {
	prometheus.MustRegister(emailsTotal)
}

func observe(sender string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	emailsTotal.WithLabelValues(sender, result).Inc()
}

// LogSender writes emails to the context logger instead of sending them.
// It is used when no SMTP relay is configured.
type LogSender struct{}

// Send logs e at info level.
func (LogSender) Send(ctx context.Context, e Email) error {
	if len(e.To) == 0 {
		observe("log", ErrNoRecipients)
		return ErrNoRecipients
	}
	zerolog.Ctx(ctx).Info().
		Strs("to", e.To).
		Str("reply_to", e.ReplyTo).
		Str("subject", e.Subject).
		Int("html_bytes", len(e.HTML)).
		Msg("email not sent (no SMTP relay configured)")
	observe("log", nil)
	return nil
}
