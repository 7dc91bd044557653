// Package api is the remote data gateway. Every request is augmented
// with a bearer credential read from the persistent local store at call
// time, so a credential rotation takes effect on the next call with no
// invalidation step. There are no retries, timeouts beyond the caller's
// context, or circuit breaking: a failed call returns an *Error and the
// caller decides.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// TokenSource yields the current bearer token. Implementations read from
// durable storage on every call rather than caching in memory.
type TokenSource interface {
	Token() string
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the REST gateway root (e.g. "https://api.example.com").
	BaseURL string
	// Tokens supplies the bearer credential per request. If nil, requests
	// go out unauthenticated.
	Tokens TokenSource
	// HTTPClient is used for all requests. If nil, http.DefaultClient.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default().
	Logger *slog.Logger
}

// Client talks to the remote organizer API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the base URL and builds a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		tokens:     config.Tokens,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured gateway root.
func (c *Client) BaseURL() string { return c.baseURL }

// errorBody is the superset of error shapes the server returns. Older
// endpoints use "msg", newer ones "message", billing uses "error".
type errorBody struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Err     string `json:"error"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Msg != "":
		return b.Msg
	default:
		return b.Err
	}
}

// doRequest performs one HTTP round trip and returns the response body.
// On 2xx the body is returned. On any other status the body is parsed
// into an *Error with the Kind mapped from the status code.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		// Read the credential fresh on every call; a rotated token is
		// picked up by the very next request.
		if token := c.tokens.Token(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	var body errorBody
	_ = json.Unmarshal(responseBody, &body)
	message := body.text()
	if message == "" {
		// Some endpoints answer with a bare string.
		message = strings.TrimSpace(string(responseBody))
	}

	apiErr := &Error{
		Kind:       kindForStatus(response.StatusCode),
		StatusCode: response.StatusCode,
		Message:    message,
	}
	c.logger.Debug("request failed",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"kind", apiErr.Kind.String(),
	)
	return nil, apiErr
}

// get performs a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// send performs a mutating call and, when out is non-nil, decodes the
// response into it.
func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	body, err := c.doRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(body, out)
}

func decode(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: parse response: %w", err)
	}
	return nil
}
