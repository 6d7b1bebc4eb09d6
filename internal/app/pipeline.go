package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/expand"
	"github.com/nlsearch/answerd/internal/qualify"
	"github.com/nlsearch/answerd/internal/search"
	"github.com/nlsearch/answerd/internal/synth"
)

// ErrNoResults is returned when search expansion yields zero candidates.
// It marks a client-input condition, not a system fault.
var ErrNoResults = errors.New("no search results")

// DefaultK is the number of strong sources kept when the caller does not ask
// for a specific count.
const DefaultK = 6

// SlimSource is the client-facing projection of a qualified source.
// Extracted content is never exposed externally.
type SlimSource struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Pipeline sequences expansion, qualification, and synthesis into the single
// query → answer flow. Both the HTTP handler and the CLI front end run
// through it.
type Pipeline struct {
	Provider       search.Provider
	Qualifier      *qualify.Qualifier
	Synth          *synth.Synthesizer
	AuthorityHints []string // nil means expand.AuthorityHints
}

// Answer runs the full flow for one query. The returned slim sources are in
// the exact order the synthesizer saw them, so [n] citations in the answer
// line up with the list positions.
func (p *Pipeline) Answer(ctx context.Context, query string, k int) (string, []SlimSource, error) {
	if k <= 0 {
		k = DefaultK
	}
	start := time.Now()

	// Search wider than k so qualification has room to discard.
	wide := 10
	if k*2 > wide {
		wide = k * 2
	}
	hints := p.AuthorityHints
	if hints == nil {
		hints = expand.AuthorityHints
	}
	candidates, err := expand.Search(ctx, p.Provider, query, wide, hints)
	if err != nil {
		return "", nil, fmt.Errorf("search expansion: %w", err)
	}
	if len(candidates) == 0 {
		return "", nil, ErrNoResults
	}
	log.Debug().Str("query", query).Int("candidates", len(candidates)).Msg("expansion done")

	sources := p.Qualifier.Qualify(ctx, candidates, k)

	answer, err := p.Synth.Answer(ctx, query, sources)
	if err != nil {
		return "", nil, err
	}

	slim := make([]SlimSource, 0, len(sources))
	for _, s := range sources {
		slim = append(slim, SlimSource{Title: s.Title, Link: s.Link})
	}
	log.Info().
		Str("query", query).
		Int("sources", len(slim)).
		Dur("elapsed", time.Since(start)).
		Msg("answered query")
	return answer, slim, nil
}
