package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func rssFeed(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Google News</title>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<item><title>Acme story %d</title><link>https://example.com/%d</link>`+
			`<guid>g%d</guid><pubDate>Mon, 19 Oct 2026 10:00:00 GMT</pubDate>`+
			`<description>Acme snippet %d</description></item>`, i, i, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func TestGoogleNewsFetchPage(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFeed(5)))
	}))
	defer srv.Close()

	client := NewGoogleNewsClient(GoogleNewsConfig{BaseURL: srv.URL})

	first, err := client.FetchPage(context.Background(), "Acme", 1, 2)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(first))
	assert.Equal(t, "Acme story 1", first[0].Title())
	assert.Equal(t, "https://example.com/1", first[0].Link())
	assert.Equal(t, "Acme snippet 1", first[0].Snippet())
	assert.Equal(t, "Google News", first[0].Source())
	assert.Equal(t, "2026-10-19T10:00:00Z", first[0].Date())

	assert.Equal(t, true, strings.Contains(query, "q=Acme"))
	assert.Equal(t, true, strings.Contains(query, "ceid=US%3Aen"))

	last, err := client.FetchPage(context.Background(), "Acme", 3, 2)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(last))
	assert.Equal(t, "Acme story 5", last[0].Title())

	past, err := client.FetchPage(context.Background(), "Acme", 4, 2)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(past))
}

func TestGoogleNewsFetchPageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewGoogleNewsClient(GoogleNewsConfig{BaseURL: srv.URL})

	_, err := client.FetchPage(context.Background(), "Acme", 1, 10)

	httpErr, ok := err.(*HTTPError)
	assert.Equal(t, true, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}
