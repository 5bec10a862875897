package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestSerpAPIFetchPage(t *testing.T) {
	var got map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"news_results": []map[string]interface{}{
				{
					"title":   "Acme Corp Reports Q4 Earnings",
					"link":    "https://example.com/acme-q4",
					"snippet": "Acme Corp beat expectations.",
					"source":  "Reuters",
					"date":    "2 hours ago",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewSerpAPIClient("test-key", SerpAPIConfig{BaseURL: srv.URL})

	articles, err := client.FetchPage(context.Background(), "Acme Corp", 3, 20)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Acme Corp Reports Q4 Earnings", articles[0].Title())
	assert.Equal(t, "https://example.com/acme-q4", articles[0].Link())

	assert.Equal(t, "google", got["engine"])
	assert.Equal(t, "Acme Corp", got["q"])
	assert.Equal(t, "nws", got["tbm"])
	assert.Equal(t, "test-key", got["api_key"])
	assert.Equal(t, "20", got["num"])
	assert.Equal(t, "40", got["start"])
}

func TestSerpAPIFetchPageNoNewsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search_metadata": {"status": "Success"}}`))
	}))
	defer srv.Close()

	client := NewSerpAPIClient("test-key", SerpAPIConfig{BaseURL: srv.URL})

	articles, err := client.FetchPage(context.Background(), "Nonexistent Co XYZ123", 1, 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, articles != nil)
	assert.Equal(t, 0, len(articles))
}

func TestSerpAPIFetchPageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Invalid API key."}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewSerpAPIClient("bad-key", SerpAPIConfig{BaseURL: srv.URL})

	articles, err := client.FetchPage(context.Background(), "Acme", 1, 10)

	assert.Equal(t, 0, len(articles))

	var httpErr *HTTPError
	assert.Equal(t, true, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, `{"error": "Invalid API key."}`, httpErr.Body)
}

func TestSerpAPIFetchPageTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := NewSerpAPIClient("test-key", SerpAPIConfig{BaseURL: baseURL})

	_, err := client.FetchPage(context.Background(), "Acme", 1, 10)

	var transportErr *TransportError
	assert.Equal(t, true, errors.As(err, &transportErr))
	assert.Equal(t, "SerpApi", transportErr.Provider)
}

func TestSerpAPIFetchPageDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	client := NewSerpAPIClient("test-key", SerpAPIConfig{BaseURL: srv.URL})

	_, err := client.FetchPage(context.Background(), "Acme", 1, 10)

	var decodeErr *DecodeError
	assert.Equal(t, true, errors.As(err, &decodeErr))
}
