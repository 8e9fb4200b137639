package notify

import (
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
)

// Config holds every notification channel.
type Config struct {
	AdminEmails      []string `toml:"adminEmails" validate:"omitempty,dive,email"`
	ServiceDeskEmail string   `toml:"serviceDeskEmail" validate:"omitempty,email"`
	Mail             Mail     `toml:"mail"`
	DataDog          DataDog  `toml:"datadog"`
}

// Mail configures SMTP delivery.
type Mail struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	// TLS is one of mandatory, opportunistic or none.
	TLS     string        `toml:"tls" validate:"omitempty,oneof=mandatory opportunistic none"`
	Timeout time.Duration `toml:"timeout"`
}

// DataDog mirrors operator notifications as events.
type DataDog struct {
	Enabled     bool                         `toml:"enabled"`
	ServiceName string                       `toml:"serviceName"`
	APIKey      string                       `toml:"apiKey"` // API Key defined at datadog
	Site        string                       `toml:"site"`   // Regional Site aka DD_SITE ("datadoghq.eu")
	Servers     datadog.ServerConfigurations `toml:"servers"`
	Tags        []string                     `toml:"tags"`
}

// New builds a sink from the configuration.
func New(cfg Config) (*Sink, error) {
	var senders []Sender

	if cfg.Mail.Enabled {
		m, err := NewMailer(cfg.Mail)
		if err != nil {
			return nil, err
		}

		senders = append(senders, m)
	}

	if cfg.DataDog.Enabled {
		senders = append(senders, NewDataDog(cfg.DataDog))
	}

	if len(senders) == 0 {
		senders = append(senders, LogSender{})
	}

	return NewSink(cfg.AdminEmails, cfg.ServiceDeskEmail, senders...), nil
}
