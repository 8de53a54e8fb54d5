// Package ceapi is a client for the Combined Energy monitoring service.
//
// The service splits its API across three hosts: user access (login and
// installation metadata), data access (readings and tariffs) and the mqtt
// frontend (log session control). Authentication is a JWT obtained from
// Login and passed as a query parameter on every other call.
package ceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/voltlabs/cebridge/internal/version"
)

// Default service endpoints.
const (
	BaseURLUserAccess = "https://onwatch.combined.energy"
	BaseURLDataAccess = "https://ds20.combined.energy/data-service"
	BaseURLMQTTAccess = "https://dp20.combined.energy"
)

// AuthError indicates the service rejected the account credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "login failed"
	}
	return "login failed: " + e.Reason
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// StatusError indicates a non-2xx HTTP response from the service.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.StatusCode) + " from " + e.URL
}

// Client talks to the Combined Energy service on behalf of one account.
// The zero value is not usable; use New.
type Client struct {
	MobileOrEmail string
	Password      string

	HTTPClient *http.Client

	// Overridable for tests.
	BaseURLUserAccess string
	BaseURLDataAccess string
	BaseURLMQTTAccess string

	now func() time.Time

	mu           sync.Mutex
	login        *Login
	installation *Installation
}

// New returns a client for the given account credentials.
func New(mobileOrEmail, password string) *Client {
	return &Client{
		MobileOrEmail:     mobileOrEmail,
		Password:          password,
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		BaseURLUserAccess: BaseURLUserAccess,
		BaseURLDataAccess: BaseURLDataAccess,
		BaseURLMQTTAccess: BaseURLMQTTAccess,
		now:               time.Now,
	}
}

// SetClock overrides the clock used for login expiry (tests).
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// LoggedIn reports whether the client holds a non-expired login.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login != nil && !c.login.Expired(c.now())
}

// Login returns a valid login token, authenticating or re-authenticating as
// needed. The token is cached until it expires.
func (c *Client) Login(ctx context.Context) (*Login, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.login != nil && !c.login.Expired(c.now()) {
		return c.login, nil
	}

	var login Login
	err := c.request(ctx, http.MethodPost, c.BaseURLUserAccess+"/user/Login", map[string]any{
		"mobileOrEmail": c.MobileOrEmail,
		"password":      c.Password,
	}, nil, &login)
	if err != nil {
		return nil, err
	}
	if login.Status != "ok" {
		return nil, &AuthError{Reason: login.Err}
	}
	login.Created = c.now()
	c.login = &login
	return c.login, nil
}

// Installation returns the account's installation, cached after first fetch.
func (c *Client) Installation(ctx context.Context) (*Installation, error) {
	c.mu.Lock()
	cached := c.installation
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	login, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	var inst Installation
	err = c.request(ctx, http.MethodGet, c.BaseURLUserAccess+"/dataAccess/installation", nil, url.Values{
		"jwt": {login.JWT},
	}, &inst)
	if err != nil {
		return nil, errors.Wrap(err, "fetch installation")
	}

	c.mu.Lock()
	c.installation = &inst
	c.mu.Unlock()
	return &inst, nil
}

// StartLogSession refreshes the service-side log session. Without a periodic
// refresh the session expires and readings stop flowing.
func (c *Client) StartLogSession(ctx context.Context) (*LogSession, error) {
	login, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	inst, err := c.Installation(ctx)
	if err != nil {
		return nil, err
	}
	var session LogSession
	err = c.request(ctx, http.MethodPost, c.BaseURLMQTTAccess+"/mqtt2/user/LogSessionStart", map[string]any{
		"i":   inst.ID,
		"jwt": login.JWT,
	}, nil, &session)
	if err != nil {
		return nil, errors.Wrap(err, "start log session")
	}
	return &session, nil
}

// Readings fetches reading history for the installation. rangeStart and
// rangeEnd are optional; increment is the sample width in seconds.
func (c *Client) Readings(ctx context.Context, rangeStart, rangeEnd *time.Time, increment int) (*Readings, error) {
	inst, err := c.Installation(ctx)
	if err != nil {
		return nil, err
	}
	login, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	params := url.Values{
		"jwt":     {login.JWT},
		"i":       {strconv.FormatInt(inst.ID, 10)},
		"seconds": {strconv.Itoa(increment)},
	}
	if rangeStart != nil {
		params.Set("rangeStart", strconv.FormatInt(rangeStart.Unix(), 10))
	}
	if rangeEnd != nil {
		params.Set("rangeEnd", strconv.FormatInt(rangeEnd.Unix(), 10))
	}
	var readings Readings
	err = c.request(ctx, http.MethodGet, c.BaseURLDataAccess+"/dataAccess/readings", nil, params, &readings)
	if err != nil {
		return nil, errors.Wrap(err, "fetch readings")
	}
	return &readings, nil
}

// TariffDetails fetches the installation's tariff plan.
func (c *Client) TariffDetails(ctx context.Context) (*TariffDetails, error) {
	inst, err := c.Installation(ctx)
	if err != nil {
		return nil, err
	}
	login, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	var details TariffDetails
	err = c.request(ctx, http.MethodGet, c.BaseURLDataAccess+"/dataAccess/tariff-details", nil, url.Values{
		"jwt": {login.JWT},
		"i":   {strconv.FormatInt(inst.ID, 10)},
	}, &details)
	if err != nil {
		return nil, errors.Wrap(err, "fetch tariff details")
	}
	return &details, nil
}

func (c *Client) request(ctx context.Context, method, rawURL string, body map[string]any, params url.Values, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cebridge/"+version.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
