// Package supabase talks to a hosted Supabase project: PostgREST for the
// leads and user_roles tables, GoTrue for session introspection. It is the
// hosted-backend twin of the postgres repositories.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/usecase"
)

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	logger         *zap.Logger
}

func NewClient(baseURL, apiKey, serviceRoleKey string, logger *zap.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "supabase",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		logger:         logger,
	}
}

// Configured reports whether the client has enough credentials to be used.
// An unconfigured client behaves like an unreachable backend.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

func (c *Client) restURL(path string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
}

// doRest executes an authenticated PostgREST request through the breaker.
// Transport failures, 5xx responses and an open breaker come back as
// ErrBackendUnavailable; a 4xx is PostgREST answering "no" and stays a plain
// error. 5xx must fail inside the breaker so consecutive server errors trip
// it the same way dial failures do.
func (c *Client) doRest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: supabase not configured", usecase.ErrBackendUnavailable)
	}

	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	result, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.restURL(path), reqBody)
		if err != nil {
			return nil, err
		}

		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.bearerKey())
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("supabase returned %d", resp.StatusCode)
		}

		return restResponse{status: resp.StatusCode, body: body}, nil
	})

	if err != nil {
		c.logger.Warn("supabase unavailable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", usecase.ErrBackendUnavailable, err)
	}

	resp := result.(restResponse)
	switch {
	case resp.status >= 200 && resp.status < 300:
		return resp.body, nil
	default:
		c.logger.Warn("supabase rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.status),
			zap.String("body", string(resp.body)),
		)
		return nil, fmt.Errorf("supabase %s %s returned %d: %s", method, path, resp.status, string(resp.body))
	}
}

type restResponse struct {
	status int
	body   []byte
}

func (c *Client) bearerKey() string {
	if c.serviceRoleKey != "" {
		return c.serviceRoleKey
	}
	return c.apiKey
}
