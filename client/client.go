// Package client talks to the GitHub REST API. Client is the long-lived,
// process-wide half (transport, error mapping, ETag revalidation); Connector
// is the request-scoped half (per-request cache, in-flight deduplication).
package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
)

const (
	defaultTimeout = 5 * time.Second
	acceptHeader   = "application/vnd.github.v3+json"

	// Below this many remaining calls in the current rate-limit window we
	// start warning. GitHub allows 5000/hour for authenticated callers.
	rateLimitWarnBelow = 50

	// ETag bodies stay in memcached for an hour. A hit still revalidates
	// with GitHub, but a 304 does not spend rate-limit budget.
	etagTTLSeconds = 3600
)

// ETagCache stores validated response bodies keyed by URL, shared across
// requests. The memcached client satisfies it.
type ETagCache interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

type Client struct {
	client  *http.Client
	apiBase string
	mc      ETagCache
	logger  *slog.Logger
}

// New builds a GitHub API client. mc may be nil, which disables conditional
// requests; everything else keeps working.
func New(apiBase string, mc ETagCache, logger *slog.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: defaultTimeout},
		apiBase: apiBase,
		mc:      mc,
		logger:  logger,
	}
}

// cachedResponse is the memcached value for one URL: the validator GitHub
// gave us plus the body it validated.
type cachedResponse struct {
	ETag string          `json:"etag"`
	Body json.RawMessage `json:"body"`
}

// GetRepository fetches repository metadata by its "owner/name" identifier.
func (c *Client) GetRepository(ctx context.Context, token, fullName string) (githunt.Repository, error) {
	owner, name, err := githunt.SplitFullName(fullName)
	if err != nil {
		return githunt.Repository{}, domain.Validationf("invalid repository name %q", fullName)
	}

	var repo githunt.Repository
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
	if err := c.get(ctx, token, path, &repo); err != nil {
		return githunt.Repository{}, err
	}

	// The schema promises these fields non-null; a payload without them is
	// a contract violation, not a usable repository.
	if repo.FullName == "" || repo.Name == "" || repo.HTMLURL == "" {
		return githunt.Repository{}, domain.RemoteUnavailablef("github: malformed repository payload for %s", fullName)
	}

	return repo, nil
}

// GetViewer fetches the authenticated caller's own profile.
func (c *Client) GetViewer(ctx context.Context, token string) (githunt.User, error) {
	if token == "" {
		return githunt.User{}, domain.ErrUnauthenticated
	}

	var user githunt.User
	if err := c.get(ctx, token, "/user", &user); err != nil {
		return githunt.User{}, err
	}

	if user.Login == "" {
		return githunt.User{}, domain.RemoteUnavailablef("github: malformed viewer payload")
	}

	return user, nil
}

// GetUser fetches a user's public profile by login.
func (c *Client) GetUser(ctx context.Context, token, login string) (githunt.User, error) {
	if login == "" {
		return githunt.User{}, domain.Validationf("empty login")
	}

	var user githunt.User
	if err := c.get(ctx, token, "/users/"+url.PathEscape(login), &user); err != nil {
		return githunt.User{}, err
	}

	if user.Login == "" {
		return githunt.User{}, domain.RemoteUnavailablef("github: malformed user payload for %s", login)
	}

	return user, nil
}

func (c *Client) get(ctx context.Context, token, path string, response any) error {
	endpoint := c.apiBase + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RemoteUnavailablef("github: building request for %s: %v", path, err)
	}
	req.Header.Set("Accept", acceptHeader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var cached *cachedResponse
	if c.mc != nil {
		if item, err := c.mc.Get(etagKey(endpoint)); err == nil {
			var cr cachedResponse
			if json.Unmarshal(item.Value, &cr) == nil && cr.ETag != "" {
				cached = &cr
				req.Header.Set("If-None-Match", cr.ETag)
			}
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.RemoteUnavailablef("github: request %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	c.checkRateLimit(resp)

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		if err := json.Unmarshal(cached.Body, response); err != nil {
			return domain.RemoteUnavailablef("github: decoding cached body for %s: %v", path, err)
		}
		return nil

	case resp.StatusCode == http.StatusNotFound:
		return domain.NotFoundf("github: %s not found", path)

	case resp.StatusCode != http.StatusOK:
		return domain.RemoteUnavailablef("github: unexpected status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RemoteUnavailablef("github: reading response for %s: %v", path, err)
	}

	if c.mc != nil {
		if etag := resp.Header.Get("ETag"); etag != "" {
			if value, err := json.Marshal(cachedResponse{ETag: etag, Body: body}); err == nil {
				c.mc.Set(&memcache.Item{
					Key:        etagKey(endpoint),
					Value:      value,
					Expiration: etagTTLSeconds,
				})
			}
		}
	}

	if err := json.Unmarshal(body, response); err != nil {
		return domain.RemoteUnavailablef("github: decoding response for %s: %v", path, err)
	}

	return nil
}

func (c *Client) checkRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" || c.logger == nil {
		return
	}
	if n, err := strconv.Atoi(remaining); err == nil && n < rateLimitWarnBelow {
		c.logger.Warn("github rate limit budget low",
			slog.Int("remaining", n),
			slog.String("reset", resp.Header.Get("X-RateLimit-Reset")),
		)
	}
}

func etagKey(endpoint string) string {
	return "etag:" + endpoint
}
