package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/githunt/githunt/internal/domain"
)

type fakeETagCache struct {
	items map[string]*memcache.Item
}

func newFakeETagCache() *fakeETagCache {
	return &fakeETagCache{items: map[string]*memcache.Item{}}
}

func (c *fakeETagCache) Get(key string) (*memcache.Item, error) {
	item, ok := c.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return item, nil
}

func (c *fakeETagCache) Set(item *memcache.Item) error {
	c.items[item.Key] = item
	return nil
}

const repoPayload = `{
	"name": "Hello-World",
	"full_name": "octocat/Hello-World",
	"description": "My first repository",
	"html_url": "https://github.com/octocat/Hello-World",
	"stargazers_count": 80,
	"open_issues_count": 0,
	"created_at": "2011-01-26T19:01:12Z"
}`

func TestGetRepository(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		if r.URL.Path != "/repos/octocat/Hello-World" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(repoPayload))
	}))
	defer server.Close()

	c := New(server.URL, nil, nil)
	repo, err := c.GetRepository(context.Background(), "token123", "octocat/Hello-World")
	if err != nil {
		t.Fatal(err)
	}

	if repo.FullName != "octocat/Hello-World" {
		t.Errorf("unexpected full_name: %s", repo.FullName)
	}
	if repo.StargazersCount != 80 {
		t.Errorf("unexpected stargazers_count: %d", repo.StargazersCount)
	}
	if gotAuth != "Bearer token123" {
		t.Errorf("unexpected authorization header: %s", gotAuth)
	}
	if gotAccept != acceptHeader {
		t.Errorf("unexpected accept header: %s", gotAccept)
	}
}

func TestGetRepositoryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := New(server.URL, nil, nil)
	_, err := c.GetRepository(context.Background(), "", "octocat/nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestGetRepositoryMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL, nil, nil)
	_, err := c.GetRepository(context.Background(), "", "octocat/Hello-World")
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Errorf("expected remote-unavailable error, got %v", err)
	}
}

func TestGetRepositoryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL, nil, nil)
	_, err := c.GetRepository(context.Background(), "", "octocat/Hello-World")
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Errorf("expected remote-unavailable error, got %v", err)
	}
}

func TestGetRepositoryInvalidFullName(t *testing.T) {
	c := New("http://unused.invalid", nil, nil)

	for _, fullName := range []string{"", "nodash", "a/b/c", "/name", "owner/"} {
		if _, err := c.GetRepository(context.Background(), "", fullName); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("full name %q: expected validation error, got %v", fullName, err)
		}
	}
}

func TestGetRepositoryRevalidatesWithETag(t *testing.T) {
	var fullResponses, revalidations int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			revalidations++
			w.WriteHeader(http.StatusNotModified)
			return
		}
		fullResponses++
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(repoPayload))
	}))
	defer server.Close()

	etags := newFakeETagCache()
	c := New(server.URL, etags, nil)
	ctx := context.Background()

	first, err := c.GetRepository(ctx, "token123", "octocat/Hello-World")
	if err != nil {
		t.Fatal(err)
	}
	if len(etags.items) != 1 {
		t.Fatalf("expected 1 cached body after the first fetch, got %d", len(etags.items))
	}

	second, err := c.GetRepository(ctx, "token123", "octocat/Hello-World")
	if err != nil {
		t.Fatal(err)
	}

	if second.FullName != first.FullName || second.StargazersCount != first.StargazersCount {
		t.Errorf("replayed body differs: %+v vs %+v", second, first)
	}
	if fullResponses != 1 {
		t.Errorf("expected 1 full response, got %d", fullResponses)
	}
	if revalidations != 1 {
		t.Errorf("expected 1 revalidation, got %d", revalidations)
	}
}

func TestGetViewer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"login": "octocat", "avatar_url": "https://example.com/a.png", "html_url": "https://github.com/octocat"}`))
	}))
	defer server.Close()

	c := New(server.URL, nil, nil)
	user, err := c.GetViewer(context.Background(), "token123")
	if err != nil {
		t.Fatal(err)
	}
	if user.Login != "octocat" {
		t.Errorf("unexpected login: %s", user.Login)
	}
}

func TestGetViewerRequiresToken(t *testing.T) {
	c := New("http://unused.invalid", nil, nil)
	if _, err := c.GetViewer(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated error, got %v", err)
	}
}
