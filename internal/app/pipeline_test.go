package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"clashbases-api/internal/config"
	"clashbases-api/internal/fetcher"
	"clashbases-api/internal/observability"
	"clashbases-api/internal/scraper"
	"clashbases-api/internal/site"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Site: config.SiteConfig{
			BaseURL: baseURL,
			Domain:  "127.0.0.1",
		},
		HTTP: config.HttpConfig{
			UserAgent:        "clashbases-api-test",
			ConnectTimeoutMS: 1000,
			TotalTimeoutMS:   2000,
		},
		Pipeline: config.PipelineConfig{
			Needed:      5,
			MaxArticles: 5,
			THMin:       2,
			THMax:       18,
		},
	}
}

func newTestPipeline(baseURL string) *Pipeline {
	cfg := testConfig(baseURL)
	logger := observability.NewNop()
	return NewPipeline(cfg, logger, fetcher.NewFetcher(cfg, logger), scraper.NewExtractor(cfg.Site.Domain))
}

func listingCard(n int) string {
	return fmt.Sprintf(`
	<article class="base-card">
		<a href="/bases/th9/war-layout-%d" title="TH9 War Base %d"></a>
		<img src="/uploads/th9-war-%d.jpg" alt="TH9 war %d">
		<span>%d.1k views</span>
	</article>`, n, n, n, n, 10-n)
}

func articleEntry(article, n int) string {
	return fmt.Sprintf(`
	<div class="wp-block-group">
		<h3>TH9 War Base %d-%d Layout</h3>
		<img src="/uploads/base-%d-%d.jpg">
		<a href="https://link.clashofclans.com/en?id=TH9-%d-%d">Copy Base Link</a>
	</div>`, article, n, article, n, article, n)
}

func TestFetchBasesEmptyListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer ts.Close()

	records := newTestPipeline(ts.URL).FetchBases(context.Background(), 9, site.PurposeWar)
	if len(records) != 0 {
		t.Errorf("empty listing should yield empty result, got %d", len(records))
	}
}

func TestFetchBasesListingFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	records := newTestPipeline(ts.URL).FetchBases(context.Background(), 9, site.PurposeWar)
	if records == nil {
		t.Fatal("result must be a non-nil slice")
	}
	if len(records) != 0 {
		t.Errorf("transport failure should collapse to empty result, got %d", len(records))
	}
}

func TestFetchBasesEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bases/th9-war", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + listingCard(1) + "</body></html>"))
	})
	mux.HandleFunc("/bases/th9/war-layout-1", func(w http.ResponseWriter, r *http.Request) {
		html := "<html><body><article>"
		for n := 1; n <= 3; n++ {
			html += articleEntry(1, n)
		}
		html += "</article></body></html>"
		_, _ = w.Write([]byte(html))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	records := newTestPipeline(ts.URL).FetchBases(context.Background(), 9, site.PurposeWar)

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	displayRe := regexp.MustCompile(`^(7|8|9|10)/10$`)
	seen := make(map[string]bool)
	for i, r := range records {
		if seen[r.Link] {
			t.Errorf("duplicate link in result: %q", r.Link)
		}
		seen[r.Link] = true
		if !displayRe.MatchString(r.RatingDisplay) {
			t.Errorf("record %d: malformed rating display %q", i, r.RatingDisplay)
		}
	}
}

func TestFetchBasesArticleFailureFallsBackToCandidates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bases/th9-war", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + listingCard(1) + listingCard(2) + "</body></html>"))
	})
	mux.HandleFunc("/bases/th9/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	records := newTestPipeline(ts.URL).FetchBases(context.Background(), 9, site.PurposeWar)

	if len(records) != 2 {
		t.Fatalf("expected 2 synthesized records, got %d", len(records))
	}
	for i, r := range records {
		want := fmt.Sprintf("%s/bases/th9/war-layout-%d", ts.URL, i+1)
		if r.Link != want {
			t.Errorf("record %d: link = %q, want %q", i, r.Link, want)
		}
		if r.Type != fmt.Sprintf("TH9 War Base %d", i+1) {
			t.Errorf("record %d: unexpected type %q", i, r.Type)
		}
		if r.RatingDisplay == "" || r.RatingDisplay == "/10" {
			t.Errorf("record %d: malformed rating display %q", i, r.RatingDisplay)
		}
		if r.ArticleURL != "" {
			t.Errorf("record %d: synthesized record should drop article_url", i)
		}
	}
}

func TestFetchBasesQuota(t *testing.T) {
	mux := http.NewServeMux()
	listing := "<html><body>"
	for n := 1; n <= 5; n++ {
		listing += listingCard(n)
	}
	listing += "</body></html>"
	mux.HandleFunc("/bases/th9-war", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listing))
	})
	for n := 1; n <= 5; n++ {
		article := n
		mux.HandleFunc(fmt.Sprintf("/bases/th9/war-layout-%d", n), func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>" + articleEntry(article, 1) + articleEntry(article, 2) + "</body></html>"))
		})
	}
	ts := httptest.NewServer(mux)
	defer ts.Close()

	records := newTestPipeline(ts.URL).FetchBases(context.Background(), 9, site.PurposeWar)

	// 5 статей по 2 записи, но квота режет до 5.
	if len(records) != 5 {
		t.Fatalf("expected quota of 5 records, got %d", len(records))
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.Link] {
			t.Errorf("duplicate link in result: %q", r.Link)
		}
		seen[r.Link] = true
	}
}

func TestFetchBasesPushFiltersByTownHall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bases/legend", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
		<div class="card"><a href="/bases/legend/th15-ring" title="TH15 Legend Ring"><img src="/u/1.jpg"></a></div>
		<div class="card"><a href="/bases/legend/th16-hybrid" title="TH16 Legend Hybrid"><img src="/u/2.jpg"></a></div>
		</body></html>`))
	})
	mux.HandleFunc("/bases/legend/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	p := newTestPipeline(ts.URL)

	records := p.FetchBases(context.Background(), 15, site.PurposePush)
	if len(records) != 1 {
		t.Fatalf("expected 1 record for th15, got %d", len(records))
	}
	if records[0].Type != "TH15 Legend Ring" {
		t.Errorf("unexpected record: %q", records[0].Type)
	}

	// Для TH без карточек на странице legend — пусто, без ошибки.
	if records := p.FetchBases(context.Background(), 9, site.PurposePush); len(records) != 0 {
		t.Errorf("expected empty result for unmatched th, got %d", len(records))
	}
}
