package fetcher

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/thedittmer/news-search/internal/logger"
	"github.com/thedittmer/news-search/internal/models"
)

const DefaultPageSize = 10

// ProgressFunc is told the page just processed and how many articles have
// been collected so far. Its errors never stop a fetch.
type ProgressFunc func(page, collected int) error

type Options struct {
	Limit        int
	PageSize     int
	MaxPages     int // <= 0 means DefaultMaxPages(Limit, PageSize)
	SleepBetween time.Duration
	Progress     ProgressFunc
}

// Result carries whatever was collected. Err is the page failure that ended
// the fetch early; it is nil when the provider ran out or the limit was met.
type Result struct {
	Articles []models.Article
	Requests int
	Err      error
}

// Paginator walks provider pages in order, keeping the first copy of every
// resolved link. Articles without a link are always kept.
type Paginator struct {
	provider Provider
	log      *logger.Logger
}

func NewPaginator(provider Provider, log *logger.Logger) *Paginator {
	if log == nil {
		log = logger.Discard()
	}
	return &Paginator{
		provider: provider,
		log:      log.With("provider", provider.Name()),
	}
}

// DefaultMaxPages leaves two pages of slack for duplicates.
func DefaultMaxPages(limit, pageSize int) int {
	return int(math.Ceil(float64(limit)/float64(pageSize))) + 2
}

func (p *Paginator) Fetch(ctx context.Context, query string, opts Options) Result {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages(opts.Limit, pageSize)
	}

	res := Result{Articles: make([]models.Article, 0)}
	seen := make(map[string]struct{})

	for page := 1; len(res.Articles) < opts.Limit && page <= maxPages; page++ {
		if page > 1 && opts.SleepBetween > 0 {
			if err := sleep(ctx, opts.SleepBetween); err != nil {
				res.Err = err
				break
			}
		}

		batch, err := p.provider.FetchPage(ctx, query, page, pageSize)
		res.Requests++
		if err != nil {
			p.log.Warn("page fetch failed, keeping partial results",
				"page", page, "collected", len(res.Articles), "error", err)
			res.Err = fmt.Errorf("page %d: %w", page, err)
			break
		}

		if len(batch) == 0 {
			p.progress(opts.Progress, page, len(res.Articles))
			break
		}

		for _, a := range batch {
			if link := a.Link(); link != "" {
				if _, dup := seen[link]; dup {
					p.log.Debug("duplicate article skipped", "link", link)
					continue
				}
				seen[link] = struct{}{}
			}

			res.Articles = append(res.Articles, a)
			if len(res.Articles) >= opts.Limit {
				break
			}
		}

		p.progress(opts.Progress, page, len(res.Articles))

		if len(batch) < pageSize {
			break
		}
	}

	return res
}

func (p *Paginator) progress(fn ProgressFunc, page, collected int) {
	if fn == nil {
		return
	}
	if err := fn(page, collected); err != nil {
		p.log.Debug("progress callback failed", "page", page, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
