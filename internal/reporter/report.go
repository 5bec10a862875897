package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/thedittmer/news-search/internal/models"
)

// TimestampLayout renders the generation time as local ISO-8601 with
// microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000"

const NoArticles = "No articles found."

// Shown returns how many of total entries a report with the given limit
// contains.
func Shown(limit, total int) int {
	return max(0, min(limit, total))
}

// Format renders the summary and returns it with the number of entries shown.
func Format(scored []models.ScoredArticle, limit int, generatedAt time.Time) (string, int) {
	lines := []string{fmt.Sprintf("News summary generated: %s\n", generatedAt.Format(TimestampLayout))}

	if len(scored) == 0 {
		lines = append(lines, NoArticles+"\n")
		return strings.Join(lines, "\n"), 0
	}

	n := Shown(limit, len(scored))
	for i, s := range scored[:n] {
		a := s.Article
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, a.Title()),
			fmt.Sprintf("   Source: %s", a.Source()),
			fmt.Sprintf("   Date: %s", a.Date()),
			fmt.Sprintf("   Link: %s", a.LinkOrPlaceholder()),
			fmt.Sprintf("   Snippet: %s", a.Snippet()),
			fmt.Sprintf("   Relevance score: %.2f\n", s.Score),
		)
	}

	return strings.Join(lines, "\n"), n
}

// Write renders the summary to w and reports how many entries it holds.
func Write(w io.Writer, scored []models.ScoredArticle, limit int, generatedAt time.Time) (int, error) {
	content, n := Format(scored, limit, generatedAt)
	if _, err := io.WriteString(w, content); err != nil {
		return 0, fmt.Errorf("failed to write report: %w", err)
	}
	return n, nil
}
