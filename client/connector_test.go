package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/githunt/githunt/internal/domain"
)

func countingRepoServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Write([]byte(repoPayload))
	}))
}

func TestConnectorServesRepeatLookupsFromCache(t *testing.T) {
	var hits int32
	server := countingRepoServer(t, &hits)
	defer server.Close()

	conn := NewConnector(New(server.URL, nil, nil), "token123")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		repo, err := conn.GetRepository(ctx, "octocat/Hello-World")
		if err != nil {
			t.Fatal(err)
		}
		if repo.FullName != "octocat/Hello-World" {
			t.Errorf("unexpected full_name: %s", repo.FullName)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 upstream call, got %d", n)
	}
}

func TestConnectorJoinsConcurrentLookups(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		// Hold the response so every lookup piles up on the in-flight call.
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(repoPayload))
	}))
	defer server.Close()

	conn := NewConnector(New(server.URL, nil, nil), "token123")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = conn.GetRepository(ctx, "octocat/Hello-World")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("lookup %d failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 upstream call, got %d", n)
	}
}

func TestConnectorDoesNotCacheFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		w.Write([]byte(repoPayload))
	}))
	defer server.Close()

	conn := NewConnector(New(server.URL, nil, nil), "token123")
	ctx := context.Background()

	if _, err := conn.GetRepository(ctx, "octocat/Hello-World"); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected remote-unavailable error, got %v", err)
	}

	repo, err := conn.GetRepository(ctx, "octocat/Hello-World")
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if repo.FullName != "octocat/Hello-World" {
		t.Errorf("unexpected full_name: %s", repo.FullName)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected 2 upstream calls, got %d", n)
	}
}

func TestConnectorCachesUsersIndependently(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"login": "octocat", "avatar_url": "https://example.com/a.png", "html_url": "https://github.com/octocat"}`))
	}))
	defer server.Close()

	conn := NewConnector(New(server.URL, nil, nil), "token123")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		user, err := conn.GetUser(ctx, "octocat")
		if err != nil {
			t.Fatal(err)
		}
		if user.Login != "octocat" {
			t.Errorf("unexpected login: %s", user.Login)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 upstream call, got %d", n)
	}
}
