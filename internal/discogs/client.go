package discogs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crate/internal/shared"
)

const (
	discogsBaseURL = "https://api.discogs.com"

	// Documented budgets: 60 req/min with a token, 25 without.
	authenticatedRPM = 60
	anonymousRPM     = 25

	// 429 handling: 3 attempts total, exponential fallback when the server
	// sends no Retry-After hint.
	maxAttempts   = 3
	retryBaseWait = time.Second
)

// StatusError is returned for any response outside the 2xx range. Callers
// branch on Code via [errors.As] or [IsStatus] instead of parsing messages.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discogs API error: status %d", e.Code)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client performs rate-limited requests against the Discogs API.
//
// The zero value is not usable; construct with [NewClient]. One limiter lives
// for the client's lifetime, so a single instance must be shared across a
// whole logical operation.
type Client struct {
	baseURL    string
	userAgent  string
	token      string
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewClient creates a Discogs client. The user agent is mandatory per the API
// terms; the token is optional and switches the client to the authenticated
// rate budget.
func NewClient(userAgent, token string) *Client {
	return NewClientWith(discogsBaseURL, userAgent, token, nil)
}

// NewClientWith creates a client against a custom base URL with a custom
// [http.Client]. Used by tests; production callers want [NewClient].
func NewClientWith(baseURL, userAgent, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = discogsBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rpm := anonymousRPM
	if token != "" {
		rpm = authenticatedRPM
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		token:      token,
		httpClient: httpClient,
		limiter:    NewRateLimiter(rpm),
	}
}

// Authenticated reports whether the client sends an access token.
func (c *Client) Authenticated() bool { return c.token != "" }

// MakeRequest performs one rate-limited call and returns the raw response
// body. An empty body on a 2xx response is a valid success value (e.g. 201
// Created with no content), not an error. 429 responses are retried up to
// maxAttempts total, honoring the Retry-After header when present.
func (c *Client) MakeRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.WaitForNextSlot(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		payload, retryAfter, err := c.do(ctx, method, path, body)
		if err == nil {
			return payload, nil
		}
		lastErr = err

		if !IsStatus(err, http.StatusTooManyRequests) || attempt == maxAttempts {
			return nil, err
		}

		wait := retryAfter
		if wait < 0 {
			wait = retryBaseWait << (attempt - 1)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// do sends a single request. On failure it also returns the parsed
// Retry-After duration (zero when absent) so MakeRequest can back off.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, time.Duration, error) {
	fullURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")),
			&StatusError{Code: resp.StatusCode, Body: string(payload)}
	}

	return payload, 0, nil
}

// parseRetryAfter reads a Retry-After header value in seconds. Returns -1
// when the header is absent or unparseable so the caller can tell "no hint"
// apart from an explicit zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return -1
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return -1
	}
	return time.Duration(secs) * time.Second
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	payload, err := c.MakeRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// search issues a vinyl-filtered database search with the given parameters.
// All free-text values are percent-encoded by [url.Values], including
// non-ASCII input.
func (c *Client) search(ctx context.Context, params url.Values) ([]SearchResult, error) {
	params.Set("type", "release")
	params.Set("format", "Vinyl")

	var response searchResponse
	if err := c.get(ctx, "/database/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// SearchByCatalogNumber searches vinyl releases by label catalog number.
func (c *Client) SearchByCatalogNumber(ctx context.Context, catno string) ([]SearchResult, error) {
	return c.search(ctx, url.Values{"catno": {catno}})
}

// SearchByArtistAndTitle searches vinyl releases by artist and album title.
func (c *Client) SearchByArtistAndTitle(ctx context.Context, artist, title string) ([]SearchResult, error) {
	return c.search(ctx, url.Values{"artist": {artist}, "release_title": {title}})
}

// SearchByUPC searches vinyl releases by barcode.
func (c *Client) SearchByUPC(ctx context.Context, upc string) ([]SearchResult, error) {
	return c.search(ctx, url.Values{"barcode": {upc}})
}

// GetRelease fetches one release's full detail.
func (c *Client) GetRelease(ctx context.Context, releaseID string) (*Release, error) {
	var release Release
	if err := c.get(ctx, "/releases/"+url.PathEscape(releaseID), &release); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", shared.ErrReleaseNotFound, releaseID)
		}
		return nil, err
	}
	return &release, nil
}

// GetUserCollection fetches one page of a user's collection (folder 0, the
// "All" folder), sorted by date added descending.
func (c *Client) GetUserCollection(ctx context.Context, username string, page, perPage int) (*CollectionPage, error) {
	params := url.Values{
		"page":       {strconv.Itoa(page)},
		"per_page":   {strconv.Itoa(perPage)},
		"sort":       {"added"},
		"sort_order": {"desc"},
	}
	path := fmt.Sprintf("/users/%s/collection/folders/0/releases?%s",
		url.PathEscape(username), params.Encode())

	var collection CollectionPage
	if err := c.get(ctx, path, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// AddToCollection adds a release to the user's default collection folder
// (folder 1, "Uncategorized"). Succeeds with an empty body on creation;
// returns a [StatusError] with code 409 when the release is already present,
// which callers treat as confirmation rather than failure.
func (c *Client) AddToCollection(ctx context.Context, username, releaseID string) error {
	path := fmt.Sprintf("/users/%s/collection/folders/1/releases/%s",
		url.PathEscape(username), url.PathEscape(releaseID))

	_, err := c.MakeRequest(ctx, http.MethodPost, path, nil)
	return err
}
