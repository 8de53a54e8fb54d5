package release

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voltlabs/cebridge/internal/version"
)

// DefaultAPIBaseURL is the GitHub REST API endpoint.
const DefaultAPIBaseURL = "https://api.github.com"

// ErrRemoteTagExists is returned when the hosting platform rejects release
// creation because the tag is already taken. Existing releases are never
// overwritten.
var ErrRemoteTagExists = errors.New("remote release tag already exists")

// GitHubClient creates releases through the GitHub REST API.
type GitHubClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewGitHubClient returns a client for the given token. An empty token is
// allowed; requests are then sent unauthenticated (useful against test servers).
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{
		BaseURL:    DefaultAPIBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ReleaseRequest is the payload for release creation.
type ReleaseRequest struct {
	TagName              string `json:"tag_name"`
	TargetCommitish      string `json:"target_commitish,omitempty"`
	Name                 string `json:"name,omitempty"`
	Body                 string `json:"body,omitempty"`
	GenerateReleaseNotes bool   `json:"generate_release_notes"`
	MakeLatest           string `json:"make_latest"`
}

// ReleaseResponse is the subset of the created release the publisher records.
type ReleaseResponse struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
}

// CreateRelease requests creation of a release in owner/repo. A 422 response
// is mapped to ErrRemoteTagExists; other non-2xx responses surface as errors
// and are not retried.
func (c *GitHubClient) CreateRelease(ctx context.Context, owner, repo string, reqBody ReleaseRequest) (*ReleaseResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/repos/%s/%s/releases", c.BaseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "cebridge/"+version.Version)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read release response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrRemoteTagExists, reqBody.TagName)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("create release: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var rel ReleaseResponse
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("decode release response: %w", err)
	}
	return &rel, nil
}

func (c *GitHubClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
