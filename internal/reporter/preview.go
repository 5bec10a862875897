package reporter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/thedittmer/news-search/internal/models"
	"github.com/thedittmer/news-search/internal/ui"
)

const minPreviewWidth = 40

// Preview renders the top entries for the terminal, cutting long titles and
// snippets to width columns.
func Preview(scored []models.ScoredArticle, limit, width int) string {
	if width < minPreviewWidth {
		width = minPreviewWidth
	}

	var b strings.Builder
	n := Shown(limit, len(scored))

	if n == 0 {
		b.WriteString(ui.DimStyle.Render(NoArticles))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(ui.HeaderStyle.Render(fmt.Sprintf("Top %d of %d articles", n, len(scored))))
	b.WriteString("\n")

	sep := ui.DimStyle.Render(" • ")
	for i, s := range scored[:n] {
		a := s.Article
		rank := fmt.Sprintf("%d.", i+1)

		b.WriteString("\n")
		b.WriteString(ui.RankStyle.Render(rank) + " " +
			ui.TitleStyle.Render(runewidth.Truncate(a.Title(), width-len(rank)-1, "…")))
		b.WriteString("\n   ")
		b.WriteString(ui.SourceStyle.Render(a.Source()) + sep +
			ui.DateStyle.Render(a.Date()) + sep +
			ui.ScoreStyle.Render(fmt.Sprintf("%.2f", s.Score)))
		if snippet := a.Snippet(); snippet != "" {
			b.WriteString("\n   ")
			b.WriteString(ui.TextStyle.Render(runewidth.Truncate(snippet, width-3, "…")))
		}
		b.WriteString("\n   ")
		b.WriteString(ui.LinkStyle.Render(a.LinkOrPlaceholder()))
		b.WriteString("\n")
	}

	return b.String()
}
