package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/testutil"
)

// crawlSite serves a tiny site: the index links two articles and an
// external page; one article links a third level.
func crawlSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	page := func(title, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<html><head><title>%s</title></head><body>%s</body></html>`, title, body)
		}
	}
	mux.HandleFunc("/", page("Índice",
		`<p>Material de estudo.</p>
		 <a href="/fotossintese">Fotossíntese</a>
		 <a href="/respiracao">Respiração</a>
		 <a href="http://externo.invalid/fora">Fora</a>`))
	mux.HandleFunc("/fotossintese", page("Fotossíntese",
		`<p>Conteúdo sobre fotossíntese.</p><a href="/nivel3">Mais fundo</a>`))
	mux.HandleFunc("/respiracao", page("Respiração",
		`<p>Conteúdo sobre respiração celular.</p>`))
	mux.HandleFunc("/nivel3", page("Nível 3", `<p>Muito fundo.</p>`))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestCrawler(t *testing.T) *Crawler {
	t.Helper()
	// Tests crawl loopback servers, which the guarded default refuses.
	reader := NewReader(&http.Client{}, testutil.DiscardLogger())
	return NewCrawler(reader, testutil.DiscardLogger())
}

func titles(pages []Extract) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Title
	}
	return out
}

func TestCrawler_Crawl(t *testing.T) {
	srv := crawlSite(t)
	crawler := newTestCrawler(t)

	pages, err := crawler.Crawl(context.Background(), srv.URL, 2, 10)
	require.NoError(t, err)

	got := titles(pages)
	assert.Contains(t, got, "Índice")
	assert.Contains(t, got, "Fotossíntese")
	assert.Contains(t, got, "Respiração")
	assert.NotContains(t, got, "Nível 3", "depth 2 stops before third-level pages")
	assert.NotContains(t, got, "Fora", "external hosts are never visited")
}

func TestCrawler_Crawl_PageCap(t *testing.T) {
	srv := crawlSite(t)
	crawler := newTestCrawler(t)

	pages, err := crawler.Crawl(context.Background(), srv.URL, 2, 1)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Índice", pages[0].Title)
}

func TestCrawler_Crawl_DepthOne(t *testing.T) {
	srv := crawlSite(t)
	crawler := newTestCrawler(t)

	pages, err := crawler.Crawl(context.Background(), srv.URL, 1, 10)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Índice", pages[0].Title)
}

func TestCrawler_Crawl_Cancelled(t *testing.T) {
	srv := crawlSite(t)
	crawler := newTestCrawler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := crawler.Crawl(ctx, srv.URL, 2, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCrawler_Crawl_BadStart(t *testing.T) {
	crawler := newTestCrawler(t)
	_, err := crawler.Crawl(context.Background(), "ftp://example.com", 2, 10)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestCrawler_Crawl_GuardedDefaultRefusesLoopback(t *testing.T) {
	srv := crawlSite(t)

	reader := NewReader(nil, testutil.DiscardLogger())
	crawler := NewCrawler(reader, testutil.DiscardLogger())

	_, err := crawler.Crawl(context.Background(), srv.URL, 1, 5)
	assert.ErrorIs(t, err, ErrBlockedURL)
}
