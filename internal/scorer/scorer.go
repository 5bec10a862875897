// Package scorer ranks an article's relevance to a company name from keyword
// frequency in its title and snippet plus a bonus for recent publication.
package scorer

import (
	"math"
	"strings"
	"time"

	"github.com/thedittmer/news-search/internal/models"
)

const (
	FrequencyWeight = 10.0
	TokenWeight     = 0.5

	// RecencyWindow is how long a published article earns a bonus; the bonus
	// falls linearly from MaxRecency to zero across it.
	RecencyWindow = 48 * time.Hour
	MaxRecency    = 2.0

	// RelativeRecency is given to dates such as "3 hours ago".
	RelativeRecency = 1.0
)

// Score computes the relevance of a against company using the current time.
func Score(a models.Article, company string) float64 {
	return ScoreAt(a, company, time.Now())
}

// ScoreAt is Score with an explicit clock.
//
// The full name and each of its tokens are counted independently, so a
// single-word name is counted once at full weight and again at token weight.
func ScoreAt(a models.Article, company string, now time.Time) float64 {
	return Frequency(a, company)*FrequencyWeight + RecencyAt(DateOf(a), now)
}

// Frequency counts non-overlapping occurrences of the lowercased company name
// and of each of its whitespace-separated tokens in "title snippet".
func Frequency(a models.Article, company string) float64 {
	haystack := strings.ToLower(a.Get("title") + " " + a.Get("snippet"))
	name := strings.ToLower(company)

	freq := float64(strings.Count(haystack, name))
	for _, token := range strings.Fields(name) {
		freq += float64(strings.Count(haystack, token)) * TokenWeight
	}

	return freq
}

// DateOf picks the first present of the article's date fields.
func DateOf(a models.Article) string {
	return a.First("date", "published", "datetime")
}

// RecencyAt scores a provider date string relative to now.
func RecencyAt(date string, now time.Time) float64 {
	if date == "" {
		return 0
	}

	published, ok := ParseISO(date)
	if !ok {
		if strings.Contains(date, "ago") {
			return RelativeRecency
		}
		return 0
	}

	window := RecencyWindow.Hours()
	hours := now.UTC().Sub(published).Hours()

	return math.Max(0, (window-math.Min(hours, window))/window*MaxRecency)
}
