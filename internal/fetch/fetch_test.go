package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGet_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "answerd/1.0", PerRequestTimeout: 5 * time.Second}
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if gotUA != "answerd/1.0" {
		t.Fatalf("expected custom user agent, got %q", gotUA)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty body")
	}
}

func TestGet_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	c := &Client{}
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 410")
	}
}

func TestGet_RejectsNonHTTPScheme(t *testing.T) {
	c := &Client{}
	if _, err := c.Get(context.Background(), "ftp://example.com/file"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
}

func TestGet_RedirectHopCap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	c := &Client{RedirectMaxHops: 2}
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error after exceeding redirect cap")
	}
}

func TestGet_TimeoutIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 50 * time.Millisecond}
	start := time.Now()
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 400*time.Millisecond {
		t.Fatal("timeout did not bound the request")
	}
}
