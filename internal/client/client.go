package client

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

	"github.com/kelsos/todos/internal/config"
	"github.com/kelsos/todos/internal/logger"
)

// RequestIDHeader correlates client and server log lines
const RequestIDHeader = "X-Request-ID"

// ErrNetwork matches every failure returned by APIClient
var ErrNetwork = errors.New("network error")

// RequestError describes a failed call; StatusCode is 0 when no response arrived
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP error %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrNetwork
}

// APIClient handles all HTTP communication with the todos API
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client with the given configuration.
// A zero RequestTimeout leaves requests without a deadline.
func NewAPIClient(cfg *config.Config) *APIClient {
	return NewAPIClientWithHTTPClient(cfg.BaseURL, &http.Client{
		Timeout: cfg.RequestTimeout,
	})
}

// NewAPIClientWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewAPIClientWithHTTPClient(baseURL string, httpClient *http.Client) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BuildURL constructs a full URL for the given endpoint
func (c *APIClient) BuildURL(endpoint string) string {
	return c.baseURL + endpoint
}

// Get makes a GET request to the specified endpoint
func (c *APIClient) Get(ctx context.Context, endpoint string, result interface{}) error {
	return c.request(ctx, http.MethodGet, endpoint, nil, result)
}

// Post makes a POST request to the specified endpoint
func (c *APIClient) Post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	return c.request(ctx, http.MethodPost, endpoint, body, result)
}

// Patch makes a PATCH request to the specified endpoint
func (c *APIClient) Patch(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	return c.request(ctx, http.MethodPatch, endpoint, body, result)
}

// Delete makes a DELETE request to the specified endpoint
func (c *APIClient) Delete(ctx context.Context, endpoint string, result interface{}) error {
	return c.request(ctx, http.MethodDelete, endpoint, nil, result)
}

// request is the core HTTP request method
func (c *APIClient) request(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	url := c.BuildURL(endpoint)
	requestID := uuid.NewString()
	start := time.Now()
	logger.Debug("Starting %s request to %s (%s)", method, url, requestID)

	fail := func(status int, respBody string, err error) error {
		return &RequestError{Method: method, URL: url, StatusCode: status, Body: respBody, Err: err}
	}

	var requestBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("error marshaling request body: %w", err))
		}
		requestBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, requestBody)
	if err != nil {
		return fail(0, "", fmt.Errorf("error creating request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Request %s failed after (%s) %v: %v", requestID, url, time.Since(start), err)
		return fail(0, "", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	logger.Request(requestID, method, url, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("%s: HTTP error %d: %s", url, resp.StatusCode, string(bodyBytes))
		return fail(resp.StatusCode, strings.TrimSpace(string(bodyBytes)), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			logger.Error("%s: Error decoding response: %v", url, err)
			return fail(resp.StatusCode, "", fmt.Errorf("error decoding response: %w", err))
		}
	}

	return nil
}
