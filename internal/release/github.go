package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	githubAPIBase = "https://api.github.com"

	// maxConcurrentFetches bounds parallel requests against the GitHub API.
	maxConcurrentFetches = 4
)

// ErrNotFound is returned when GitHub has no release for a tag.
var ErrNotFound = errors.New("release not found")

// Client fetches releases from the GitHub API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string

	inflight singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL points the client at a different API root (GitHub Enterprise, tests).
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken authenticates requests for higher rate limits and private repos.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    githubAPIBase,
		userAgent:  "extcat",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchByTag fetches a single release of repo ("owner/name") by tag.
// Concurrent calls for the same repo and tag share one request.
func (c *Client) FetchByTag(ctx context.Context, repo, tag string) (*Release, error) {
	key := repo + "@" + tag
	v, err, _ := c.inflight.Do(key, func() (interface{}, error) {
		u := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.baseURL, repo, url.PathEscape(tag))
		return c.fetchRelease(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	// Callers own their copy; the shared result must not be mutated.
	shared := v.(*Release)
	r := *shared
	r.Assets = append([]Asset(nil), shared.Assets...)
	return &r, nil
}

// FetchTags fetches several releases concurrently. The result preserves the
// order of tags, so releases are later applied in the order the caller asked for.
func (c *Client) FetchTags(ctx context.Context, repo string, tags []string) ([]*Release, error) {
	releases := make([]*Release, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, tag := range tags {
		i, tag := i, tag
		g.Go(func() error {
			r, err := c.FetchByTag(gctx, repo, tag)
			if err != nil {
				return fmt.Errorf("fetching release %s: %w", tag, err)
			}
			releases[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return releases, nil
}

func (c *Client) fetchRelease(ctx context.Context, u string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var r Release
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}
	return &r, nil
}
