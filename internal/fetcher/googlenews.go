package fetcher

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/thedittmer/news-search/internal/models"
)

const DefaultGoogleNewsURL = "https://news.google.com/rss/search"

type GoogleNewsConfig struct {
	BaseURL  string
	Language string // e.g. "en-US"
	Region   string // e.g. "US"
	Timeout  time.Duration
}

// GoogleNewsClient reads the public Google News RSS search feed. It needs no
// credential but the feed is not paginated, so pages are cut from one
// response.
type GoogleNewsClient struct {
	baseURL    string
	language   string
	region     string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewGoogleNewsClient(cfg GoogleNewsConfig) *GoogleNewsClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoogleNewsURL
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.Region == "" {
		cfg.Region = "US"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GoogleNewsClient{
		baseURL:    cfg.BaseURL,
		language:   cfg.Language,
		region:     cfg.Region,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		parser:     gofeed.NewParser(),
	}
}

func (c *GoogleNewsClient) Name() string {
	return "GoogleNews"
}

func (c *GoogleNewsClient) FetchPage(ctx context.Context, query string, page, pageSize int) ([]models.Article, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", c.language)
	params.Set("gl", c.region)
	params.Set("ceid", c.region+":"+strings.SplitN(c.language, "-", 2)[0])

	resp, err := get(ctx, c.httpClient, c.Name(), c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, &DecodeError{Provider: c.Name(), Err: err}
	}

	start := (page - 1) * pageSize
	if start < 0 || start >= len(feed.Items) {
		return []models.Article{}, nil
	}
	end := min(start+pageSize, len(feed.Items))

	articles := make([]models.Article, 0, end-start)
	for _, item := range feed.Items[start:end] {
		articles = append(articles, itemToArticle(feed, item))
	}

	return articles, nil
}

func itemToArticle(feed *gofeed.Feed, item *gofeed.Item) models.Article {
	a := models.Article{
		"title":   item.Title,
		"link":    item.Link,
		"snippet": item.Description,
		"source":  feed.Title,
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		a["source"] = item.Authors[0].Name
	}

	switch {
	case item.PublishedParsed != nil:
		a["date"] = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.Published != "":
		a["date"] = item.Published
	}

	if item.GUID != "" {
		a["guid"] = item.GUID
	}

	return a
}
