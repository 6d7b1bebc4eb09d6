// Package expand widens a user query into a biased set of search variants
// and merges their results into one deduplicated candidate list.
package expand

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/search"
)

// AuthorityHints are site: fragments appended to the query to bias results
// toward trusted encyclopedic, heritage, geographic, and standards sources.
var AuthorityHints = []string{
	"site:wikipedia.org",
	"site:britannica.com",
	"site:new7wonders.com",
	"site:nationalgeographic.com",
	"site:unesco.org",
}

// Variants builds the query fan-out: the original query first, then intent
// qualifiers, then domain-restricted forms. Ordering matters — generic
// queries fill the budget before site-restricted ones so restricted results
// cannot starve generic coverage when the budget is small.
func Variants(query string, hints []string) []string {
	out := []string{
		query,
		query + " official list",
		query + " locations",
	}
	for _, h := range hints {
		out = append(out, query+" "+h)
	}
	return out
}

// Search issues every variant through the provider in order and merges the
// results, deduplicated by link, up to a budget of max(12, 2k). Once the
// budget fills, remaining variants are not issued. The merged list is then
// filtered to entries carrying both a title and a link and truncated to
// max(10, k). A provider failure aborts the whole expansion.
func Search(ctx context.Context, p search.Provider, query string, k int, hints []string) ([]search.Result, error) {
	budget := 12
	if k*2 > budget {
		budget = k * 2
	}

	seen := map[string]struct{}{}
	items := make([]search.Result, 0, budget)

	for _, q := range Variants(query, hints) {
		results, err := p.Search(ctx, q, 10)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", q, err)
		}
		log.Debug().Str("variant", q).Int("hits", len(results)).Msg("search variant")
		for _, r := range results {
			if r.Link == "" {
				continue
			}
			if _, ok := seen[r.Link]; ok {
				continue
			}
			seen[r.Link] = struct{}{}
			items = append(items, r)
			if len(items) >= budget {
				break
			}
		}
		if len(items) >= budget {
			break
		}
	}

	good := make([]search.Result, 0, len(items))
	for _, r := range items {
		if r.Title != "" && r.Link != "" {
			good = append(good, r)
		}
	}
	limit := 10
	if k > limit {
		limit = k
	}
	if len(good) > limit {
		good = good[:limit]
	}
	return good, nil
}
