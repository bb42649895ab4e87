package fetcher

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clashbases-api/internal/config"
	"clashbases-api/internal/observability"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HttpConfig{
			UserAgent:        "clashbases-api-test",
			ConnectTimeoutMS: 1000,
			TotalTimeoutMS:   2000,
			AcceptLanguage:   "en",
		},
	}
}

func TestFetch(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	f := NewFetcher(testConfig(), observability.NewNop())

	resp, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if string(resp.Body) != "<html>ok</html>" {
		t.Errorf("unexpected body: %q", resp.Body)
	}
	if gotUA != "clashbases-api-test" {
		t.Errorf("unexpected User-Agent: %q", gotUA)
	}
}

func TestFetchNon200IsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	f := NewFetcher(testConfig(), observability.NewNop())

	// Не-200 — забота пайплайна, фетчер лишь отдаёт статус.
	resp, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

func TestFetchGzip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("compressed body"))
		_ = gz.Close()
	}))
	defer ts.Close()

	f := NewFetcher(testConfig(), observability.NewNop())

	resp, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(resp.Body) != "compressed body" {
		t.Errorf("gzip body not decoded: %q", resp.Body)
	}
}

func TestFetchSingleAttempt(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := NewFetcher(testConfig(), observability.NewNop())

	if _, err := f.Fetch(context.Background(), ts.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestRateLimiterMinInterval(t *testing.T) {
	rl := NewRateLimiter(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx, "example.com"); err != nil {
			t.Fatalf("Rate limiter error: %v", err)
		}
	}
	elapsed := time.Since(start)

	if elapsed < 60*time.Millisecond {
		t.Errorf("3 requests should span >= 2 intervals, took %v", elapsed)
	}
}

func TestRateLimiterPerHost(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	if err := rl.Wait(ctx, "a.example.com"); err != nil {
		t.Fatalf("Rate limiter error: %v", err)
	}
	if err := rl.Wait(ctx, "b.example.com"); err != nil {
		t.Fatalf("Rate limiter error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("different hosts should not throttle each other, took %v", elapsed)
	}
}

func TestRateLimiterCancellation(t *testing.T) {
	rl := NewRateLimiter(500 * time.Millisecond)

	if err := rl.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("Rate limiter error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx, "example.com"); err == nil {
		t.Errorf("expected context error on cancelled wait")
	}
}
