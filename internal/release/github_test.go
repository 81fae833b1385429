package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func releaseJSON(tag string) string {
	name, _, _ := strings.Cut(tag, "@")
	return fmt.Sprintf(`{
		"tag_name": %q,
		"published_at": "2025-01-02T03:04:05Z",
		"assets": [{"name": "%s.tar.gz", "browser_download_url": "https://dl.example.com/%s.tar.gz"}]
	}`, tag, name, name)
}

func newTestServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		const prefix = "/repos/acme/exts/releases/tags/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		tag := strings.TrimPrefix(r.URL.Path, prefix)
		if tag == "missing@1.0.0" {
			http.NotFound(w, r)
			return
		}
		if tag == "limited@1.0.0" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, releaseJSON(tag))
	}))
}

func TestFetchByTag(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithBaseURL(server.URL))
	r, err := c.FetchByTag(context.Background(), "acme/exts", "demo@1.0.0")
	if err != nil {
		t.Fatalf("FetchByTag error: %v", err)
	}
	if r.TagName != "demo@1.0.0" {
		t.Errorf("TagName = %q", r.TagName)
	}
	if r.FindAsset("demo.tar.gz") == nil {
		t.Error("expected demo.tar.gz asset")
	}
}

func TestFetchByTag_Errors(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithBaseURL(server.URL))

	_, err := c.FetchByTag(context.Background(), "acme/exts", "missing@1.0.0")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = c.FetchByTag(context.Background(), "acme/exts", "limited@1.0.0")
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("expected rate limit error, got %v", err)
	}
}

func TestFetchByTag_SendsToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, releaseJSON("demo@1.0.0"))
	}))
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithBaseURL(server.URL), WithToken("s3cret"))
	if _, err := c.FetchByTag(context.Background(), "acme/exts", "demo@1.0.0"); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer s3cret" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer s3cret")
	}
}

func TestFetchTags_PreservesOrder(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithBaseURL(server.URL))
	tags := []string{"zeta@2.0.0", "alpha@1.0.0", "mid@0.1.0"}

	releases, err := c.FetchTags(context.Background(), "acme/exts", tags)
	if err != nil {
		t.Fatalf("FetchTags error: %v", err)
	}
	for i, tag := range tags {
		if releases[i].TagName != tag {
			t.Errorf("releases[%d].TagName = %q, want %q", i, releases[i].TagName, tag)
		}
	}
}

func TestFetchTags_FailsOnAnyError(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithBaseURL(server.URL))
	_, err := c.FetchTags(context.Background(), "acme/exts", []string{"demo@1.0.0", "missing@1.0.0"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchByTag_ConcurrentCallersGetOwnCopies(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithBaseURL(server.URL))

	const callers = 8
	results := make([]*Release, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := c.FetchByTag(context.Background(), "acme/exts", "demo@1.0.0")
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = r
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&hits); got < 1 || got > callers {
		t.Errorf("hits = %d, want between 1 and %d", got, callers)
	}

	if results[0] == nil {
		t.Fatal("first caller got no release")
	}
	results[0].Assets[0].Name = "mutated"
	for i := 1; i < callers; i++ {
		if results[i] == nil {
			continue
		}
		if results[i].Assets[0].Name == "mutated" {
			t.Fatalf("results[%d] shares assets with results[0]", i)
		}
	}
}

func TestFetchByTag_UserAgent(t *testing.T) {
	var ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		fmt.Fprint(w, releaseJSON("demo@1.0.0"))
	}))
	defer server.Close()

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"default", nil, "extcat"},
		{"override", []Option{WithUserAgent("extcat/1.4.0")}, "extcat/1.4.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithHTTPClient(server.Client()), WithBaseURL(server.URL)}, tt.opts...)
			if _, err := NewClient(opts...).FetchByTag(context.Background(), "acme/exts", "demo@1.0.0"); err != nil {
				t.Fatal(err)
			}
			if ua != tt.want {
				t.Errorf("User-Agent = %q, want %q", ua, tt.want)
			}
		})
	}
}
