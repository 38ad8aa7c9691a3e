// Package api is the thin HTTP wrapper the front end uses to call the
// Profile API, normalizing the success/error envelope into Go values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/janisto/profilehub/internal/timeutil"
)

const defaultBaseURL = "http://localhost:8080"

// ErrUnreachable wraps transport-level failures: the API could not be
// reached at all. The cache layer absorbs these by falling back to local
// data; every other error passes through.
var ErrUnreachable = errors.New("profile api unreachable")

// Profile is the client-side view of a profile record. An ID carrying the
// local placeholder prefix marks a record created offline and not yet synced.
type Profile struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Age       int           `json:"age"`
	CreatedAt timeutil.Time `json:"createdAt"`
	UpdatedAt timeutil.Time `json:"updatedAt"`
}

// FieldError mirrors the envelope's field-level validation errors.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-success response from the Profile API.
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("profile api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnreachable reports whether err is a transport-level failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// SaveRequest carries the fields of a create-or-update call.
type SaveRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// SaveResult reports the outcome of a create-or-update call.
type SaveResult struct {
	Profile Profile
	Message string
	Created bool
}

// envelope matches the wire shape of every API response.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Errors  []FieldError    `json:"errors"`
}

// Client calls the Profile API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new Profile API client. A nil httpClient gets a
// default with a request timeout.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, int, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, resp.StatusCode, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Errors:  env.Errors,
		}
	}
	return &env, resp.StatusCode, nil
}

// SaveProfile calls create-or-update and reports which branch occurred.
func (c *Client) SaveProfile(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	env, status, err := c.do(ctx, http.MethodPost, "/api/profiles", req)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &SaveResult{
		Profile: p,
		Message: env.Message,
		Created: status == http.StatusCreated,
	}, nil
}

// GetProfile fetches a single profile by email.
func (c *Client) GetProfile(ctx context.Context, email string) (*Profile, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// ListProfiles fetches all profiles, newest-created first.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/api/profiles", nil)
	if err != nil {
		return nil, err
	}

	var profiles []Profile
	if err := json.Unmarshal(env.Data, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

// DeleteProfile removes a profile by email.
func (c *Client) DeleteProfile(ctx context.Context, email string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/api/profiles/"+url.PathEscape(email), nil)
	return err
}

// Ping probes the liveness endpoint. The sync coordinator uses it to detect
// when connectivity returns.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}
