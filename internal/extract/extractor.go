package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/fetch"
)

// fetchErrPrefix marks placeholder content produced for failed fetches.
const fetchErrPrefix = "[Fetch error for "

// Extractor turns a URL into readable text. Implementations never return an
// error: a failed fetch yields a descriptive placeholder string, which
// callers must treat as valid low-quality content.
type Extractor interface {
	Text(ctx context.Context, url string, maxChars int) string
}

// ReadabilityExtractor tries a full readability pass first and falls back to
// a raw GET plus markup stripping when that yields nothing.
type ReadabilityExtractor struct {
	Fetcher *fetch.Client
	// Timeout bounds the readability pass, which performs its own fetch.
	// Zero means 15s.
	Timeout time.Duration

	// primary is an injection point for tests; nil means readability.FromURL.
	primary func(url string, timeout time.Duration) (readability.Article, error)
}

func (e *ReadabilityExtractor) Text(ctx context.Context, url string, maxChars int) string {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	primary := e.primary
	if primary == nil {
		primary = readability.FromURL
	}

	article, err := primary(url, timeout)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return Truncate(text, maxChars)
		}
	} else {
		log.Debug().Err(err).Str("url", url).Msg("readability pass failed; falling back")
	}

	body, err := e.Fetcher.Get(ctx, url)
	if err != nil {
		return Placeholder(url, err)
	}
	return Truncate(StripMarkup(body), maxChars)
}

// Placeholder renders the content stand-in stored for a failed fetch.
func Placeholder(url string, err error) string {
	return fmt.Sprintf("%s%s: %v]", fetchErrPrefix, url, err)
}

// IsPlaceholder reports whether content is a fetch-error stand-in rather
// than extracted page text.
func IsPlaceholder(content string) bool {
	return strings.HasPrefix(content, fetchErrPrefix)
}
