package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const maxResponseBody = 8 << 20

// Client talks to Microsoft Graph. One client serves the whole process; the oauth2 token
// source caches the token and refreshes it on expiry.
type Client struct {
	http    *http.Client
	ts      oauth2.TokenSource
	base    string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// New builds a client for the configured app registration. No request is made until the first call.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{DefaultScope},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
	ts := cc.TokenSource(ctx)

	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = cfg.Timeout

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "graph",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Client{
		http:    hc,
		ts:      ts,
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker,
	}, nil
}

// Token fetches the bearer token, surfacing credential problems before any work starts.
func (c *Client) Token() error {
	if _, err := c.ts.Token(); err != nil {
		return fmt.Errorf("graph token: %w", err)
	}

	return nil
}

// do issues one request. target is a path below the base URL or an absolute URL such as a
// nextLink. Non 2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, target string, body any, header http.Header) ([]byte, error) {
	var reqBody []byte

	if body != nil {
		var err error

		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, target, err)
		}
	}

	u := target
	if !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		u = c.base + target
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}

		for k, v := range header {
			req.Header[k] = v
		}

		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{
				Method:      method,
				URL:         u,
				Status:      resp.StatusCode,
				Body:        string(b),
				RequestBody: string(reqBody),
			}

			// client errors are answers, not outages
			if resp.StatusCode < 500 {
				return apiErr, nil
			}

			return nil, apiErr
		}

		return b, nil
	})
	if err != nil {
		return nil, err
	}

	if apiErr, ok := res.(*APIError); ok {
		return nil, apiErr
	}

	b, _ := res.([]byte)

	return b, nil
}

func (c *Client) getJSON(ctx context.Context, target string, header http.Header, out any) error {
	b, err := c.do(ctx, http.MethodGet, target, nil, header)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}

	return nil
}

// objectRef is the body of the $ref endpoints.
func (c *Client) objectRef(kind, id string) map[string]string {
	return map[string]string{"@odata.id": fmt.Sprintf("%s/%s/%s", c.base, kind, id)}
}
