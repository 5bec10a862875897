// Package reporter orders scored articles and renders them as the plain-text
// news summary or a styled terminal preview.
package reporter

import (
	"sort"
	"time"

	"github.com/thedittmer/news-search/internal/models"
	"github.com/thedittmer/news-search/internal/scorer"
)

// Rank scores every article against company and orders them best first.
func Rank(articles []models.Article, company string) []models.ScoredArticle {
	return RankAt(articles, company, time.Now())
}

// RankAt is Rank with an explicit clock. Equal scores keep fetch order.
func RankAt(articles []models.Article, company string, now time.Time) []models.ScoredArticle {
	scored := make([]models.ScoredArticle, 0, len(articles))
	for _, a := range articles {
		scored = append(scored, models.ScoredArticle{
			Score:   scorer.ScoreAt(a, company, now),
			Article: a,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
