package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client defines the operations the rest of the system needs from the remote
// show-data provider.
type Client interface {
	// GetSchedule fetches the show schedule for a date (YYYY-MM-DD).
	GetSchedule(ctx context.Context, date string) (*Schedule, error)
	// GetMyEntries fetches the customer's entries in a show.
	GetMyEntries(ctx context.Context, showID int) (*MyEntries, error)
	// GetEntryDetail fetches full detail for one entry.
	GetEntryDetail(ctx context.Context, entryID, showID int) (*EntryDetail, error)
	// GetClass fetches the authoritative snapshot of one class. The raw body
	// is returned alongside the decoded payload for archival.
	GetClass(ctx context.Context, classID, showID int) (*ClassSnapshot, []byte, error)
	// Reauthenticate discards the cached token and performs a fresh login.
	Reauthenticate(ctx context.Context) error
}

// HTTPClient implements Client against the provider's HTTP API. A bearer token
// is obtained lazily via /auth/login and cached until Reauthenticate; there is
// no refresh endpoint.
type HTTPClient struct {
	cfg  Config
	http *http.Client

	mu    sync.Mutex
	token string
}

// NewHTTPClient creates a provider client with strict transport timeouts.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}
}

// login performs POST /auth/login and returns the access token.
func (c *HTTPClient) login(ctx context.Context) (string, error) {
	payload := map[string]string{
		"username":    c.cfg.Username,
		"password":    c.cfg.Password,
		"remember_me": "yes",
		"company_id":  strings.TrimSpace(c.cfg.CustomerID),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.cfg.Origin)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	// The provider answers 200 or 201 on success.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &APIError{Op: "login", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var lr LoginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if lr.AccessToken == "" {
		return "", fmt.Errorf("login response missing access_token")
	}
	return lr.AccessToken, nil
}

// ensureToken returns the cached token, logging in when none is held.
func (c *HTTPClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.login(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// Reauthenticate discards the cached token and performs a fresh login.
func (c *HTTPClient) Reauthenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	token, err := c.login(ctx)
	if err != nil {
		return err
	}
	c.token = token
	return nil
}

// get performs an authenticated GET and returns the raw response body.
func (c *HTTPClient) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Origin", c.cfg.Origin)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// GetSchedule fetches the show schedule for a date (YYYY-MM-DD).
func (c *HTTPClient) GetSchedule(ctx context.Context, date string) (*Schedule, error) {
	params := url.Values{}
	params.Set("date", date)
	params.Set("customer_id", c.cfg.CustomerID)

	raw, err := c.get(ctx, "get schedule", "/schedule", params)
	if err != nil {
		return nil, err
	}
	var s Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return &s, nil
}

// GetMyEntries fetches the customer's entries in a show.
func (c *HTTPClient) GetMyEntries(ctx context.Context, showID int) (*MyEntries, error) {
	params := url.Values{}
	params.Set("show_id", strconv.Itoa(showID))
	params.Set("customer_id", c.cfg.CustomerID)

	raw, err := c.get(ctx, "get my entries", "/entries/my", params)
	if err != nil {
		return nil, err
	}
	var m MyEntries
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode my entries: %w", err)
	}
	return &m, nil
}

// GetEntryDetail fetches full detail for one entry.
func (c *HTTPClient) GetEntryDetail(ctx context.Context, entryID, showID int) (*EntryDetail, error) {
	params := url.Values{}
	params.Set("eid", strconv.Itoa(entryID))
	params.Set("show_id", strconv.Itoa(showID))
	params.Set("customer_id", c.cfg.CustomerID)

	raw, err := c.get(ctx, "get entry detail", "/entries/"+strconv.Itoa(entryID), params)
	if err != nil {
		return nil, err
	}
	var d EntryDetail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode entry detail: %w", err)
	}
	return &d, nil
}

// GetClass fetches the authoritative snapshot of one class.
func (c *HTTPClient) GetClass(ctx context.Context, classID, showID int) (*ClassSnapshot, []byte, error) {
	params := url.Values{}
	params.Set("show_id", strconv.Itoa(showID))
	params.Set("customer_id", c.cfg.CustomerID)

	raw, err := c.get(ctx, "get class", "/classes/"+strconv.Itoa(classID), params)
	if err != nil {
		return nil, nil, err
	}
	var snap ClassSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, raw, fmt.Errorf("failed to decode class snapshot: %w", err)
	}
	return &snap, raw, nil
}
