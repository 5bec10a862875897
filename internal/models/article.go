package models

import (
	"fmt"
)

const (
	NoTitle       = "(No title)"
	UnknownSource = "(Unknown source)"
	UnknownDate   = "(Unknown date)"
	NoLink        = "(No link)"
)

// Article is a search result exactly as the provider returned it. No field is
// guaranteed to be present.
type Article map[string]any

type ScoredArticle struct {
	Score   float64
	Article Article
}

// Get returns the value stored under key as a string, or "" when it is
// missing or null. Objects carrying a "name" (SerpApi sources) yield that name.
func (a Article) Get(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if name, ok := val["name"].(string); ok {
			return name
		}
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// First returns the first non-empty value among keys.
func (a Article) First(keys ...string) string {
	for _, key := range keys {
		if v := a.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// Link is the deduplication key: "link", falling back to "url".
func (a Article) Link() string {
	return a.First("link", "url")
}

func (a Article) Title() string {
	return orDefault(a.First("title", "title_no_date"), NoTitle)
}

func (a Article) Source() string {
	return orDefault(a.First("source", "provider"), UnknownSource)
}

func (a Article) Date() string {
	return orDefault(a.First("date", "published"), UnknownDate)
}

func (a Article) LinkOrPlaceholder() string {
	return orDefault(a.Link(), NoLink)
}

func (a Article) Snippet() string {
	return a.First("snippet", "snippet_highlighted")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
