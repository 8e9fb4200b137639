package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer delivers notifications over SMTP.
type Mailer struct {
	client *mail.Client
	from   string
}

// NewMailer builds an SMTP client. The connection is dialled per message.
func NewMailer(cfg Mail) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithTLSPolicy(tlsPolicy(cfg.TLS)),
	}

	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From}, nil
}

// Name implements Sender.
func (m *Mailer) Name() string { return "mail" }

// Send implements Sender.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}

	return m.client.DialAndSendWithContext(ctx, out)
}

func buildMessage(from string, msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}

	out := mail.NewMsg()

	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("from address %q: %w", from, err)
	}

	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to addresses: %w", err)
	}

	if len(msg.Cc) > 0 {
		if err := out.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("cc addresses: %w", err)
		}
	}

	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	return out, nil
}

func tlsPolicy(s string) mail.TLSPolicy {
	switch s {
	case "mandatory":
		return mail.TLSMandatory
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}
