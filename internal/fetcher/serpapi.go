package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thedittmer/news-search/internal/models"
)

const (
	DefaultSerpAPIURL = "https://serpapi.com/search.json"
	DefaultEngine     = "google"
	DefaultTimeout    = 15 * time.Second
)

// SerpAPIConfig overrides the endpoint used by SerpAPIClient. Zero values
// fall back to the public SerpApi defaults.
type SerpAPIConfig struct {
	BaseURL string
	Engine  string
	Timeout time.Duration
}

// SerpAPIClient searches Google News through SerpApi (tbm=nws).
type SerpAPIClient struct {
	apiKey     string
	baseURL    string
	engine     string
	httpClient *http.Client
}

func NewSerpAPIClient(apiKey string, cfg SerpAPIConfig) *SerpAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSerpAPIURL
	}
	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SerpAPIClient{
		apiKey:     apiKey,
		baseURL:    cfg.BaseURL,
		engine:     cfg.Engine,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *SerpAPIClient) Name() string {
	return "SerpApi"
}

// FetchPage returns the records under "news_results", or an empty slice when
// the response has none.
func (c *SerpAPIClient) FetchPage(ctx context.Context, query string, page, pageSize int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("engine", c.engine)
	params.Set("q", query)
	params.Set("tbm", "nws")
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(pageSize))
	params.Set("start", strconv.Itoa((page-1)*pageSize))

	resp, err := get(ctx, c.httpClient, c.Name(), c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &DecodeError{Provider: c.Name(), Err: err}
	}

	if raw.NewsResults == nil {
		return []models.Article{}, nil
	}
	return raw.NewsResults, nil
}

type serpResponse struct {
	NewsResults []models.Article `json:"news_results"`
}
