package scorer

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/thedittmer/news-search/internal/models"
)

var frozen = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func TestFrequencyDoubleCountsTokens(t *testing.T) {
	a := models.Article{"title": "Acme wins big", "snippet": "Acme Acme deal"}

	// "acme" appears 3 times as the full name and 3 more times at token weight
	assert.Equal(t, 4.5, Frequency(a, "Acme"))
	assert.Equal(t, 45.0, ScoreAt(a, "Acme", frozen))
}

func TestFrequencyMultiWordCompany(t *testing.T) {
	a := models.Article{"title": "Acme Corp and Acme Labs", "snippet": "corp news"}

	// full name once, "acme" twice and "corp" twice at half weight
	assert.Equal(t, 3.0, Frequency(a, "ACME Corp"))
}

func TestFrequencyMissingFields(t *testing.T) {
	assert.Equal(t, 0.0, Frequency(models.Article{}, "Acme"))
	assert.Equal(t, 1.5, Frequency(models.Article{"snippet": "acme"}, "acme"))
}

func TestRecencyRamp(t *testing.T) {
	cases := []struct {
		name string
		date string
		want float64
	}{
		{"now", frozen.Format(time.RFC3339), 2.0},
		{"24h", frozen.Add(-24 * time.Hour).Format(time.RFC3339), 1.0},
		{"12h", frozen.Add(-12 * time.Hour).Format(time.RFC3339), 1.5},
		{"48h", frozen.Add(-48 * time.Hour).Format(time.RFC3339), 0.0},
		{"a week", frozen.Add(-7 * 24 * time.Hour).Format(time.RFC3339), 0.0},
		{"offset", "2026-10-19T08:00:00-04:00", 2.0},
		{"naive is utc", "2026-10-18T12:00:00", 1.0},
		{"date only", "2026-10-18", 1.0},
		{"space separator", "2026-10-18 12:00", 1.0},
		{"fractional", "2026-10-18T12:00:00.000000Z", 1.0},
		{"relative", "3 hours ago", 1.0},
		{"relative days", "2 days ago", 1.0},
		{"yesterday", "yesterday", 0.0},
		{"rfc1123", "Mon, 19 Oct 2026 10:00:00 GMT", 0.0},
		{"empty", "", 0.0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, RecencyAt(c.date, frozen))
		})
	}
}

func TestDateFieldPrecedence(t *testing.T) {
	a := models.Article{
		"published": "5 minutes ago",
		"datetime":  frozen.Format(time.RFC3339),
	}
	assert.Equal(t, "5 minutes ago", DateOf(a))

	a["date"] = frozen.Format(time.RFC3339)
	assert.Equal(t, 2.0, ScoreAt(a, "nothing", frozen))
}

func TestScoreIsDeterministic(t *testing.T) {
	a := models.Article{
		"title":   "Globex shares jump",
		"snippet": "Globex Corporation beat estimates",
		"date":    "2026-10-19T01:17:00Z",
	}

	first := ScoreAt(a, "Globex Corporation", frozen)
	second := ScoreAt(a, "Globex Corporation", frozen)

	assert.Equal(t, first, second)
}

func TestParseISO(t *testing.T) {
	got, ok := ParseISO("2026-10-19T10:34:00Z")
	assert.Equal(t, true, ok)
	assert.Equal(t, true, got.Equal(time.Date(2026, time.October, 19, 10, 34, 0, 0, time.UTC)))

	got, ok = ParseISO("2026-10-19T10:34:00+0200")
	assert.Equal(t, true, ok)
	assert.Equal(t, 8, got.Hour())

	_, ok = ParseISO("19/10/2026")
	assert.Equal(t, false, ok)
}
