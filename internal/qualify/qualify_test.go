package qualify

import (
	"context"
	"strings"
	"testing"

	"github.com/nlsearch/answerd/internal/extract"
	"github.com/nlsearch/answerd/internal/search"
)

// fakeExtractor maps URL to canned content and counts fetches.
type fakeExtractor struct {
	content map[string]string
	fetches []string
}

func (f *fakeExtractor) Text(_ context.Context, url string, maxChars int) string {
	f.fetches = append(f.fetches, url)
	return extract.Truncate(f.content[url], maxChars)
}

func longText() string { return strings.Repeat("x", MinContentChars) }

func TestQualify_WhitelistedShortPageAccepted(t *testing.T) {
	fx := &fakeExtractor{content: map[string]string{
		"https://en.wikipedia.org/wiki/A": "short stub",
	}}
	q := &Qualifier{Extractor: fx}
	out := q.Qualify(context.Background(), []search.Result{
		{Title: "A", Link: "https://en.wikipedia.org/wiki/A"},
	}, 3)
	if len(out) != 1 || out[0].Content != "short stub" {
		t.Fatalf("expected whitelisted short page to qualify, got %+v", out)
	}
}

func TestQualify_LongContentOffWhitelistAccepted(t *testing.T) {
	fx := &fakeExtractor{content: map[string]string{
		"https://blog.example.com/post": longText(),
		"https://blog.example.com/thin": "too short",
	}}
	q := &Qualifier{Extractor: fx}
	out := q.Qualify(context.Background(), []search.Result{
		{Title: "thin", Link: "https://blog.example.com/thin"},
		{Title: "long", Link: "https://blog.example.com/post"},
	}, 3)
	if len(out) != 1 || out[0].Link != "https://blog.example.com/post" {
		t.Fatalf("expected only the long page to qualify, got %+v", out)
	}
}

func TestQualify_StopsAtKWithoutFetchingRest(t *testing.T) {
	content := map[string]string{}
	var candidates []search.Result
	for _, link := range []string{
		"https://en.wikipedia.org/1",
		"https://www.britannica.com/2",
		"https://www.unesco.org/3",
		"https://example.com/never-fetched",
	} {
		content[link] = "short"
		candidates = append(candidates, search.Result{Title: "t", Link: link})
	}
	fx := &fakeExtractor{content: content}
	q := &Qualifier{Extractor: fx}
	out := q.Qualify(context.Background(), candidates, 3)
	if len(out) != 3 {
		t.Fatalf("expected exactly k sources, got %d", len(out))
	}
	for _, url := range fx.fetches {
		if url == "https://example.com/never-fetched" {
			t.Fatal("candidate beyond k was fetched")
		}
	}
}

func TestQualify_StrongSourcesKeepRankOrder(t *testing.T) {
	// 20 candidates, 5 whitelisted among the top 8; k=3 must return the
	// first three whitelisted in original rank order.
	content := map[string]string{}
	var candidates []search.Result
	whitelisted := map[int]bool{1: true, 3: true, 4: true, 6: true, 7: true}
	for i := 0; i < 20; i++ {
		link := "https://example.com/r"
		if whitelisted[i] {
			link = "https://en.wikipedia.org/wiki/r"
		}
		link += string(rune('a' + i))
		content[link] = "short"
		candidates = append(candidates, search.Result{Title: "t", Link: link})
	}
	fx := &fakeExtractor{content: content}
	q := &Qualifier{Extractor: fx}
	out := q.Qualify(context.Background(), candidates, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(out))
	}
	want := []string{
		candidates[1].Link,
		candidates[3].Link,
		candidates[4].Link,
	}
	for i, s := range out {
		if s.Link != want[i] {
			t.Fatalf("rank order broken at %d: got %q want %q", i, s.Link, want[i])
		}
		if !q.Whitelisted(s.Link) {
			t.Fatalf("non-whitelisted source slipped through: %q", s.Link)
		}
	}
}

func TestQualify_ZeroQualifiedFallsBackToRawCandidates(t *testing.T) {
	fx := &fakeExtractor{content: map[string]string{
		"https://a.example.com/1": "thin",
		"https://a.example.com/2": "thin",
		"https://a.example.com/3": "thin",
		"https://a.example.com/4": "thin",
	}}
	q := &Qualifier{Extractor: fx}
	candidates := []search.Result{
		{Title: "1", Link: "https://a.example.com/1"},
		{Title: "", Link: "https://a.example.com/2"},
		{Title: "3", Link: "https://a.example.com/3"},
		{Title: "4", Link: "https://a.example.com/4"},
	}
	out := q.Qualify(context.Background(), candidates, 3)
	if len(out) != 3 {
		t.Fatalf("fallback should yield min(k, len(candidates))=3, got %d", len(out))
	}
	if out[0].Link != candidates[0].Link || out[2].Link != candidates[2].Link {
		t.Fatalf("fallback order broken: %+v", out)
	}
	if out[1].Title != "Untitled" {
		t.Fatalf("missing title should default to Untitled, got %q", out[1].Title)
	}
}

func TestQualify_PlaceholderContentDoesNotCountAsLong(t *testing.T) {
	placeholder := extract.Placeholder("https://down.example.com/x", context.DeadlineExceeded)
	// Pad the placeholder comfortably past the length cut-off.
	placeholder += strings.Repeat(" ", MinContentChars)
	fx := &fakeExtractor{content: map[string]string{
		"https://down.example.com/x": placeholder,
	}}
	q := &Qualifier{Extractor: fx}
	out := q.Qualify(context.Background(), []search.Result{
		{Title: "down", Link: "https://down.example.com/x"},
	}, 2)
	// The page must not qualify as strong, but the fallback still returns it.
	if len(out) != 1 {
		t.Fatalf("expected fallback source, got %d", len(out))
	}
	if !extract.IsPlaceholder(out[0].Content) {
		t.Fatalf("fallback content should be the placeholder, got %q", out[0].Content)
	}
}

func TestQualify_NoCandidatesYieldsNoSources(t *testing.T) {
	q := &Qualifier{Extractor: &fakeExtractor{content: map[string]string{}}}
	if out := q.Qualify(context.Background(), nil, 3); len(out) != 0 {
		t.Fatalf("expected no sources, got %+v", out)
	}
}
