package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider serves canned search results from a local JSON file for
// offline development and tests. The file holds an array of objects:
// {"title": "...", "link": "...", "snippet": "..."}.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	// A site: filter never matches canned entries verbatim; match on the
	// query's leading terms so expanded variants still hit.
	if i := strings.Index(q, " site:"); i >= 0 {
		q = strings.TrimSpace(q[:i])
	}
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.Link == "" || r.Title == "" {
			continue
		}
		hay := strings.ToLower(r.Title + " " + r.Snippet)
		if q == "" || containsAllWords(hay, q) {
			r.Source = f.Name()
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func containsAllWords(hay, q string) bool {
	for _, w := range strings.Fields(q) {
		if !strings.Contains(hay, w) {
			return false
		}
	}
	return true
}
