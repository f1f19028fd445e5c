// Package linear wraps the Linear GraphQL API: a thin query/mutate
// transport plus the resolvers that turn human-friendly references
// (team keys, issue identifiers, names) into UUIDs.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/retry"
)

// DefaultAPIURL is Linear's GraphQL endpoint.
const DefaultAPIURL = "https://api.linear.app/graphql"

// Client is an authenticated Linear GraphQL client.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	retry      retry.Config
	log        *slog.Logger
}

// ClientConfig holds configuration for the Linear client.
type ClientConfig struct {
	// APIURL is the GraphQL endpoint. Defaults to DefaultAPIURL if empty.
	APIURL string

	// APIKey is the Linear personal API key sent as the Authorization
	// header. Required.
	APIKey string

	// Retry is the backoff policy for transient failures. Zero value
	// means no retries.
	Retry retry.Config

	// Logger receives retry warnings. May be nil.
	Logger *slog.Logger
}

// NewClient creates a Linear client from the given config.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, clierr.New(clierr.CodeAuth,
			"no API key configured. Run 'linctl auth login' or set LINEAR_API_KEY")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		apiURL: apiURL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retry: cfg.Retry,
		log:   cfg.Logger,
	}, nil
}

// graphqlRequest is the wire format of a GraphQL POST body.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Query executes a GraphQL query and returns the decoded response
// envelope (the object holding "data"). Transient failures are retried
// per the client's policy.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	return retry.Do(ctx, c.retry, c.log, func() (map[string]any, error) {
		return c.execute(ctx, query, variables)
	})
}

// Mutate executes a GraphQL mutation. Mutations ride the same POST
// transport as queries.
func (c *Client) Mutate(ctx context.Context, mutation string, variables map[string]any) (map[string]any, error) {
	return c.Query(ctx, mutation, variables)
}

func (c *Client) execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, clierr.New(clierr.CodeGeneral, "connection to Linear failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if errs, ok := result["errors"]; ok {
		code := clierr.CodeGeneral
		if graphqlNotFound(errs) {
			code = clierr.CodeNotFound
		}
		return nil, clierr.New(code, "GraphQL error").WithDetails(errs)
	}

	return result, nil
}

// graphqlNotFound reports whether a GraphQL errors array describes a
// missing entity, so lookups by bad ID exit with the not-found code.
func graphqlNotFound(errs any) bool {
	arr, ok := errs.([]any)
	if !ok {
		return false
	}
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		msg, _ := obj["message"].(string)
		if strings.Contains(strings.ToLower(msg), "not found") {
			return true
		}
	}
	return false
}

// FetchBytes GETs a URL with the client's Authorization header. Used
// for downloads from Linear's upload storage.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return retry.Do(ctx, c.retry, c.log, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, clierr.New(clierr.CodeGeneral, "connection to Linear uploads failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, statusError(resp)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		return data, nil
	})
}

// PutBytes PUTs data to a pre-signed upload URL with the given headers.
// The signed URL carries its own auth, so no Authorization header is
// added.
func (c *Client) PutBytes(ctx context.Context, url string, headers map[string]string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return clierr.New(clierr.CodeGeneral, "connection to upload storage failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return clierr.New(clierr.CodeGeneral, "upload failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// statusError maps a non-2xx HTTP response to a clierr with the exit
// code the status implies. The body is drained so the connection can
// be reused.
func statusError(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	retryAfter := 0
	if v := resp.Header.Get("Retry-After"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			retryAfter = n
		}
	}

	details := map[string]any{
		"status":     resp.StatusCode,
		"reason":     http.StatusText(resp.StatusCode),
		"request_id": resp.Header.Get("X-Request-Id"),
	}

	var cerr *clierr.Error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		cerr = clierr.New(clierr.CodeAuth, "Authentication failed - check your API key")
	case http.StatusForbidden:
		cerr = clierr.New(clierr.CodeAuth, "Access denied - insufficient permissions")
	case http.StatusNotFound:
		cerr = clierr.New(clierr.CodeNotFound, "Resource not found")
	case http.StatusTooManyRequests:
		cerr = clierr.New(clierr.CodeRateLimited, "Rate limit exceeded").WithRetryAfter(retryAfter)
	default:
		cerr = clierr.New(clierr.CodeGeneral, "HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return cerr.WithDetails(details)
}
