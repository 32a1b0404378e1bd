package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"motoshare/internal/shared/config"
)

// ErrNotConfigured is returned by every provider call when no checkout
// provider credentials are present. Callers treat it as a first-class
// outcome, not a failure.
var ErrNotConfigured = errors.New("checkout provider is not configured")

// ErrSessionNotFound indicates the provider has no record of the session.
var ErrSessionNotFound = errors.New("checkout session not found")

// SessionStatus is the provider-side state of a checkout session.
type SessionStatus string

const (
	SessionOpen     SessionStatus = "OPEN"
	SessionPaid     SessionStatus = "PAID"
	SessionExpired  SessionStatus = "EXPIRED"
	SessionRefunded SessionStatus = "REFUNDED"
)

// Session is a checkout session as reported by the provider.
type Session struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Status      SessionStatus `json:"status"`
	AmountTotal int64         `json:"amount_total"`
	Reference   string        `json:"client_reference_id"`
}

// SessionRequest describes the checkout session to open.
type SessionRequest struct {
	Reference   string `json:"client_reference_id"`
	AmountTotal int64  `json:"amount_total"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

// Provider is the outbound interface to the hosted checkout service.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	RefundSession(ctx context.Context, sessionID string, amount int64) error
	Configured() bool
}

// httpProvider talks to the checkout service over its REST API.
type httpProvider struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
}

// NewProvider builds a provider from configuration. With no base URL or
// API key it returns a disabled provider whose every call reports
// ErrNotConfigured.
func NewProvider(cfg config.CheckoutConfig) Provider {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return disabledProvider{}
	}
	return &httpProvider{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
	}
}

func (p *httpProvider) Configured() bool { return true }

func (p *httpProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	var session Session
	if err := p.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *httpProvider) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	err := p.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *httpProvider) RefundSession(ctx context.Context, sessionID string, amount int64) error {
	body := map[string]interface{}{"session_id": sessionID, "amount": amount}
	return p.do(ctx, http.MethodPost, "/v1/refunds", body, nil)
}

// do executes one provider call with bounded retries on transport errors
// and 5xx responses. 4xx responses are never retried.
func (p *httpProvider) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("checkout request failed: %w", err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read checkout response: %w", readErr)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out != nil {
				if err := json.Unmarshal(respBody, out); err != nil {
					return fmt.Errorf("failed to decode checkout response: %w", err)
				}
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return ErrSessionNotFound
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("checkout service error: status %d", resp.StatusCode)
			continue
		default:
			return fmt.Errorf("checkout request rejected: status %d: %s", resp.StatusCode, string(respBody))
		}
	}
	return lastErr
}

// disabledProvider stands in when no checkout service is configured.
type disabledProvider struct{}

func (disabledProvider) Configured() bool { return false }

func (disabledProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	return nil, ErrNotConfigured
}

func (disabledProvider) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return nil, ErrNotConfigured
}

func (disabledProvider) RefundSession(ctx context.Context, sessionID string, amount int64) error {
	return ErrNotConfigured
}
