// Package fetcher pulls news search results from a provider, one page at a
// time or paginated with link deduplication.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/thedittmer/news-search/internal/models"
)

// Provider fetches a single page of news results for a query. Pages are
// 1-based.
type Provider interface {
	Name() string
	FetchPage(ctx context.Context, query string, page, pageSize int) ([]models.Article, error)
}

// get issues a GET and returns the response once its status is 2xx. The
// caller closes the body.
func get(ctx context.Context, client *http.Client, provider, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	req.Header.Set("User-Agent", "news-search/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return resp, nil
}
