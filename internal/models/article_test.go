package models

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestGetMissingAndNull(t *testing.T) {
	a := Article{"title": nil}

	assert.Equal(t, "", a.Get("title"))
	assert.Equal(t, "", a.Get("snippet"))
}

func TestGetNonString(t *testing.T) {
	var a Article
	err := json.Unmarshal([]byte(`{"position": 3, "source": {"name": "Reuters", "icon": "x.png"}}`), &a)

	assert.Equal(t, nil, err)
	assert.Equal(t, "3", a.Get("position"))
	assert.Equal(t, "Reuters", a.Get("source"))
}

func TestLinkFallsBackToURL(t *testing.T) {
	assert.Equal(t, "https://a.example", Article{"link": "https://a.example", "url": "https://b.example"}.Link())
	assert.Equal(t, "https://b.example", Article{"url": "https://b.example"}.Link())
	assert.Equal(t, "https://b.example", Article{"link": "", "url": "https://b.example"}.Link())
	assert.Equal(t, "", Article{}.Link())
}

func TestReportFallbacks(t *testing.T) {
	empty := Article{}
	assert.Equal(t, NoTitle, empty.Title())
	assert.Equal(t, UnknownSource, empty.Source())
	assert.Equal(t, UnknownDate, empty.Date())
	assert.Equal(t, NoLink, empty.LinkOrPlaceholder())
	assert.Equal(t, "", empty.Snippet())

	alt := Article{
		"title_no_date":       "Alt title",
		"provider":            "Wire",
		"published":           "2026-01-02",
		"url":                 "https://example.com/x",
		"snippet_highlighted": "highlighted",
	}
	assert.Equal(t, "Alt title", alt.Title())
	assert.Equal(t, "Wire", alt.Source())
	assert.Equal(t, "2026-01-02", alt.Date())
	assert.Equal(t, "https://example.com/x", alt.LinkOrPlaceholder())
	assert.Equal(t, "highlighted", alt.Snippet())
}
