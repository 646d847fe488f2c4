package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aescanero/gistproxy/pkg/domain"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.github.com"

// ErrUserNotFound is returned when the upstream reports no such user.
var ErrUserNotFound = errors.New("user not found")

// APIError represents a non-2xx response from the upstream API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error: %d %s", e.StatusCode, e.Message)
}

// Unwrap maps 404 responses to ErrUserNotFound so callers can classify
// with errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	return nil
}

// Config holds upstream client configuration
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Client is the GitHub Gists API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	logger     *zap.Logger
}

// NewClient creates a new GitHub API client
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "gistproxy"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.Token,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// ListGists fetches one page of a user's public gists
func (c *Client) ListGists(ctx context.Context, username string, page, perPage int) ([]domain.Gist, *domain.RateLimit, error) {
	endpoint := fmt.Sprintf("%s/users/%s/gists", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rateLimit := parseRateLimit(resp.Header)

	c.logger.Debug("upstream response",
		zap.String("username", username),
		zap.Int("page", page),
		zap.Int("per_page", perPage),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		return nil, rateLimit, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var gists []domain.Gist
	if err := json.NewDecoder(resp.Body).Decode(&gists); err != nil {
		return nil, rateLimit, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	return gists, rateLimit, nil
}

// parseRateLimit extracts the rate limit headers from an upstream response
func parseRateLimit(h http.Header) *domain.RateLimit {
	rl := &domain.RateLimit{}

	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if remaining, err := strconv.Atoi(v); err == nil {
			rl.Remaining = &remaining
		}
	}

	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if reset, err := strconv.ParseInt(v, 10, 64); err == nil {
			t := time.Unix(reset, 0).UTC()
			rl.ResetAt = &t
		}
	}

	return rl
}
