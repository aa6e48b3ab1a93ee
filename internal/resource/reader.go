package resource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Reader fetches a single page and extracts its readable content.
type Reader struct {
	client *http.Client
	logger *slog.Logger
}

// NewReader creates a Reader. client may be nil for a default that
// applies FetchTimeout and refuses private-network targets; passing a
// client replaces that policy along with the transport.
func NewReader(client *http.Client, logger *slog.Logger) *Reader {
	if client == nil {
		client = &http.Client{
			Timeout:   FetchTimeout,
			Transport: guardedTransport(),
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{client: client, logger: logger}
}

// Fetch downloads rawURL and reduces it to an Extract.
func (r *Reader) Fetch(ctx context.Context, rawURL string) (*Extract, error) {
	pageURL, err := parsePageURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if mt != "text/html" && mt != "application/xhtml+xml" {
			return nil, fmt.Errorf("%w: %s", ErrNotHTML, mt)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	return r.extract(body, pageURL), nil
}

// extract runs readability over the body, patching gaps from document
// metadata and falling back to a bare HTML walk when readability
// cannot make sense of the page.
func (r *Reader) extract(body []byte, pageURL *url.URL) *Extract {
	ex := &Extract{URL: pageURL.String()}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		ex.Title = strings.TrimSpace(article.Title)
		ex.SiteName = strings.TrimSpace(article.SiteName)
		ex.Excerpt = strings.TrimSpace(article.Excerpt)
		ex.Text = strings.TrimSpace(article.TextContent)
	} else {
		r.logger.Debug("readability failed, walking the DOM",
			"url", pageURL.String(), "error", err)
		ex.Text = textFromHTML(body)
	}

	fillFromMetadata(ex, body, pageURL)

	if ex.Excerpt == "" {
		ex.Excerpt = ex.Text
	}
	ex.Excerpt = clampRunes(collapseSpace(ex.Excerpt), MaxExcerptRunes)
	return ex
}

// fillFromMetadata completes missing fields from <title> and
// OpenGraph tags.
func fillFromMetadata(ex *Extract, body []byte, pageURL *url.URL) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		if ex.SiteName == "" {
			ex.SiteName = pageURL.Hostname()
		}
		return
	}

	if ex.Title == "" {
		ex.Title = strings.TrimSpace(doc.Find("meta[property='og:title']").AttrOr("content", ""))
	}
	if ex.Title == "" {
		ex.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if ex.SiteName == "" {
		ex.SiteName = strings.TrimSpace(doc.Find("meta[property='og:site_name']").AttrOr("content", ""))
	}
	if ex.SiteName == "" {
		ex.SiteName = pageURL.Hostname()
	}
	if ex.Excerpt == "" {
		ex.Excerpt = strings.TrimSpace(doc.Find("meta[property='og:description']").AttrOr("content", ""))
	}
	if ex.Excerpt == "" {
		ex.Excerpt = strings.TrimSpace(doc.Find("meta[name='description']").AttrOr("content", ""))
	}
}

// textFromHTML is the last-resort extractor: every text node except
// script and style, joined with spaces.
func textFromHTML(body []byte) string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " ")
}

func parsePageURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	u.Fragment = ""
	return u, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clampRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
