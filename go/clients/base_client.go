package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNoCredentials is returned when an authenticated call is attempted without a session
var ErrNoCredentials = errors.New("no session credentials")

// Credentials supplies the bearer token for authenticated calls and is told
// whenever the server rejects it.
type Credentials interface {
	BearerToken() string
	Unauthorized(ctx context.Context, token string)
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
	Body       string
}

// FieldError names a single rejected request field
type FieldError struct {
	Field        string `json:"field"`
	RejectReason string `json:"rejectReason"`
}

// errorBody mirrors the server's error response
type errorBody struct {
	Status      string       `json:"status"`
	Description string       `json:"description"`
	Message     string       `json:"message"`
	Error       string       `json:"error"`
	ErrorFields []FieldError `json:"errorFields"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status code: %d, message: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API returned status code: %d, response: %s", e.StatusCode, e.Body)
}

// Unauthorized reports whether the error is a 401
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

type BaseClient struct {
	baseURL     string
	client      *http.Client
	headers     map[string]string
	credentials Credentials
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		headers: map[string]string{
			"Accept": "application/json",
		},
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetCredentials installs the session used by authenticated calls
func (c *BaseClient) SetCredentials(credentials Credentials) {
	c.credentials = credentials
}

// MakeRequest performs a request and decodes a JSON response into out when out is non-nil.
// Authenticated requests carry the bearer token; a 401 is reported back to the credentials.
func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, authenticated bool, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	token := ""
	if authenticated {
		if c.credentials != nil {
			token = c.credentials.BearerToken()
		}
		if token == "" {
			return ErrNoCredentials
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, responseBody)
		log.Debug().
			Str("request_id", requestID).
			Str("method", method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("request failed")
		if authenticated && apiErr.Unauthorized() && c.credentials != nil {
			c.credentials.Unauthorized(ctx, token)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(responseBody))
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Fields = parsed.ErrorFields
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.Description != "":
			apiErr.Message = parsed.Description
		case parsed.Error != "":
			apiErr.Message = parsed.Error
		}
	}
	return apiErr
}

func (c *BaseClient) Get(ctx context.Context, endpoint string, out any) error {
	return c.MakeRequest(ctx, http.MethodGet, endpoint, true, nil, out)
}

func (c *BaseClient) Post(ctx context.Context, endpoint string, in, out any) error {
	return c.MakeRequest(ctx, http.MethodPost, endpoint, true, in, out)
}

func (c *BaseClient) Patch(ctx context.Context, endpoint string, in, out any) error {
	return c.MakeRequest(ctx, http.MethodPatch, endpoint, true, in, out)
}

func (c *BaseClient) Delete(ctx context.Context, endpoint string) error {
	return c.MakeRequest(ctx, http.MethodDelete, endpoint, true, nil, nil)
}

// PostPublic performs an unauthenticated POST, used by login and registration
func (c *BaseClient) PostPublic(ctx context.Context, endpoint string, in, out any) error {
	return c.MakeRequest(ctx, http.MethodPost, endpoint, false, in, out)
}
