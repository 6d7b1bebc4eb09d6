// Package qualify decides which fetched pages are trustworthy enough to
// feed the synthesizer.
package qualify

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/extract"
	"github.com/nlsearch/answerd/internal/search"
)

// WhitelistDomains are substrings that mark a link as trusted regardless of
// how much text the extractor recovered from it.
var WhitelistDomains = []string{
	"wikipedia.org",
	"britannica.com",
	"new7wonders.com",
	"nationalgeographic.com",
	"unesco.org",
}

// MinContentChars is the extracted-length cut-off for accepting a page that
// is not on a trusted domain.
const MinContentChars = 800

// Source is a fetched page accepted into the synthesis context. Content may
// be a fetch-error placeholder under the raw fallback. Immutable once built.
type Source struct {
	Title   string
	Link    string
	Content string
}

// Qualifier fetches candidate content and applies the strong-source policy.
type Qualifier struct {
	Extractor extract.Extractor
	// MaxContentChars caps each source's extracted text. Zero means 30000.
	MaxContentChars int
	// Whitelist overrides WhitelistDomains when non-nil.
	Whitelist []string
}

func (q *Qualifier) maxChars() int {
	if q.MaxContentChars > 0 {
		return q.MaxContentChars
	}
	return 30_000
}

func (q *Qualifier) whitelist() []string {
	if q.Whitelist != nil {
		return q.Whitelist
	}
	return WhitelistDomains
}

// Whitelisted reports whether link contains any trusted domain substring.
func (q *Qualifier) Whitelisted(link string) bool {
	for _, d := range q.whitelist() {
		if strings.Contains(link, d) {
			return true
		}
	}
	return false
}

// Qualify scans candidates in order, fetching each one's content, and keeps
// those that are whitelisted or long enough, stopping as soon as k sources
// are collected so trailing candidates are never fetched. When nothing
// qualifies, it falls back to the first k raw candidates, content fetched
// but unfiltered, so the pipeline still produces sources whenever any
// candidates exist.
func (q *Qualifier) Qualify(ctx context.Context, candidates []search.Result, k int) []Source {
	sources := make([]Source, 0, k)
	for _, r := range candidates {
		if r.Link == "" {
			continue
		}
		content := q.Extractor.Text(ctx, r.Link, q.maxChars())
		whitelisted := q.Whitelisted(r.Link)
		longEnough := len(content) >= MinContentChars && !extract.IsPlaceholder(content)

		if whitelisted || longEnough {
			sources = append(sources, Source{Title: titleOrDefault(r.Title), Link: r.Link, Content: content})
		}
		if len(sources) >= k {
			break
		}
	}
	if len(sources) > 0 {
		return sources
	}

	// Zero qualified: trade quality for availability.
	log.Warn().Int("candidates", len(candidates)).Msg("no strong sources; falling back to raw candidates")
	raw := candidates
	if len(raw) > k {
		raw = raw[:k]
	}
	for _, r := range raw {
		sources = append(sources, Source{
			Title:   titleOrDefault(r.Title),
			Link:    r.Link,
			Content: q.Extractor.Text(ctx, r.Link, q.maxChars()),
		})
	}
	return sources
}

func titleOrDefault(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled"
	}
	return title
}
