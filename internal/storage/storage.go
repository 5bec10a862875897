// Package storage owns everything a run writes to disk or exports: the text
// report, the optional JSON dump of ranked results and the Sheets export.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thedittmer/news-search/internal/models"
)

const DataDirName = ".news-search"

type Storage struct {
	dataDir string
}

// NewDefaultStorage uses ~/.news-search, creating it if needed.
func NewDefaultStorage() (*Storage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStorage(filepath.Join(homeDir, DataDirName))
}

func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}
	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) DataDir() string {
	return s.dataDir
}

// Path resolves name inside the data directory.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// WriteReport replaces path with content. The file is written beside the
// target and renamed over it so a failed run never leaves a partial report.
func WriteReport(path, content string) error {
	return writeAtomic(path, []byte(content))
}

type ResultEntry struct {
	Rank    int     `json:"rank"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	Date    string  `json:"date"`
	Link    string  `json:"link"`
	Snippet string  `json:"snippet"`
}

type ResultsFile struct {
	Company     string        `json:"company"`
	GeneratedAt time.Time     `json:"generated_at"`
	Count       int           `json:"count"`
	Results     []ResultEntry `json:"results"`
}

// SaveResultsJSON writes the first limit ranked entries as indented JSON.
func SaveResultsJSON(path, company string, scored []models.ScoredArticle, limit int, generatedAt time.Time) error {
	entries := Entries(scored, limit)

	data, err := json.MarshalIndent(ResultsFile{
		Company:     company,
		GeneratedAt: generatedAt,
		Count:       len(entries),
		Results:     entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling results: %w", err)
	}

	return writeAtomic(path, data)
}

// LoadResultsJSON reads a file written by SaveResultsJSON.
func LoadResultsJSON(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading results: %w", err)
	}

	var rf ResultsFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("error parsing results: %w", err)
	}
	return &rf, nil
}

// Entries flattens the top limit scored articles with report placeholders.
func Entries(scored []models.ScoredArticle, limit int) []ResultEntry {
	n := max(0, min(limit, len(scored)))
	entries := make([]ResultEntry, 0, n)

	for i, s := range scored[:n] {
		a := s.Article
		entries = append(entries, ResultEntry{
			Rank:    i + 1,
			Score:   s.Score,
			Title:   a.Title(),
			Source:  a.Source(),
			Date:    a.Date(),
			Link:    a.LinkOrPlaceholder(),
			Snippet: a.Snippet(),
		})
	}

	return entries
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error writing %s: %w", path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error saving %s: %w", path, err)
	}

	return nil
}
