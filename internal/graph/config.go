package graph

import (
	"fmt"
	"time"
)

const (
	// DefaultBaseURL is the v1.0 Graph endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultScope requests the application permissions granted to the client.
	DefaultScope = "https://graph.microsoft.com/.default"

	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 10
	defaultBurst             = 5
)

// Breaker configures the circuit breaker wrapped around every call.
type Breaker struct {
	MaxRequests      uint32        // probes allowed while half open
	Interval         time.Duration // closed state count reset period
	Timeout          time.Duration // open state duration
	FailureThreshold uint32        // consecutive failures that open the breaker
}

// Config holds the app registration and client tuning.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	BaseURL  string
	TokenURL string

	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Breaker           Breaker
}

func (c *Config) defaults() error {
	if c.TenantID == "" {
		return ErrTenantIDEmpty
	}

	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrClientCredentialsEmpty
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.TokenURL == "" {
		c.TokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", c.TenantID)
	}

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRequestsPerSecond
	}

	if c.Burst <= 0 {
		c.Burst = defaultBurst
	}

	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = 5
	}

	if c.Breaker.Timeout <= 0 {
		c.Breaker.Timeout = time.Minute
	}

	return nil
}
