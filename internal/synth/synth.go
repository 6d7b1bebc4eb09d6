package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"

	"github.com/nlsearch/answerd/internal/llm"
	"github.com/nlsearch/answerd/internal/qualify"
)

// ErrEmptyAnswer indicates the model returned no usable text.
var ErrEmptyAnswer = errors.New("empty answer")

// systemPrompt fixes the answering contract: ground in sources with [n]
// citations, allow succinct general-knowledge answers for well-established
// facts when the sources are thin, and disclose what is missing otherwise.
const systemPrompt = "You are a precise research assistant. Prefer answers grounded in the provided sources, " +
	"with citations like [1], [2]. If the question concerns widely accepted general facts " +
	"(e.g., capitals, well-known lists, definitions) and the provided sources are thin, you may " +
	"answer succinctly using general knowledge, but still try to ground with at least one reputable " +
	"source from those provided. If essential details truly aren't in the sources and not reliable " +
	"as general knowledge, say what is missing and suggest the single best next source to check."

// Synthesizer asks the model for a cited natural-language answer built from
// qualified sources. The order of sources fixes the citation numbering, so
// callers must return the same order to their clients.
type Synthesizer struct {
	Client llm.Client
	Model  string
	// ExcerptChars caps each source's excerpt inside the prompt, a second
	// truncation layer over the extractor's own cap. Zero means 6000.
	ExcerptChars int
	// MaxOutputTokens bounds the model response. Zero means 1400.
	MaxOutputTokens int
}

// Answer builds the prompt context from sources, 1-indexed in slice order,
// and returns the model's trimmed answer text. Provider failures are wrapped
// and propagated; nothing is retried here.
func (s *Synthesizer) Answer(ctx context.Context, query string, sources []qualify.Source) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("synthesizer not configured")
	}
	user := buildUserMessage(query, sources, s.excerptChars())
	log.Debug().Int("sources", len(sources)).Int("prompt_chars", len(user)).Msg("synthesis prompt built")

	maxTokens := s.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 1400
	}
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyAnswer
	}
	return out, nil
}

func (s *Synthesizer) excerptChars() int {
	if s.ExcerptChars > 0 {
		return s.ExcerptChars
	}
	return 6000
}

func buildUserMessage(query string, sources []qualify.Source, excerptChars int) string {
	blocks := make([]string, 0, len(sources))
	for i, src := range sources {
		title := src.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		excerpt := src.Content
		if len(excerpt) > excerptChars {
			excerpt = excerpt[:excerptChars]
		}
		blocks = append(blocks, fmt.Sprintf("[Source %d]\nTitle: %s\nURL: %s\nExcerpt:\n%s", i+1, title, src.Link, excerpt))
	}
	return fmt.Sprintf("user_query: %s\n\nSources:\n%s", query, strings.Join(blocks, "\n\n"))
}
