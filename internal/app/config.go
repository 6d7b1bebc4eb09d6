package app

import (
	"errors"
	"strings"
	"time"
)

// DefaultUserAgent mirrors a desktop browser; some sites only serve real
// HTML to a browser-looking client.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// DefaultAllowedOrigins covers the local Vite dev servers the front end
// runs on.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:5174",
	"http://127.0.0.1:5174",
}

// Config holds runtime configuration for the service.
type Config struct {
	ListenAddr string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Search
	GoogleAPIKey   string
	SearchEngineID string
	// FileSearchPath switches to the offline file-based provider; the
	// Google credentials are then not required.
	FileSearchPath string

	// Fetch / extraction
	UserAgent    string
	FetchTimeout time.Duration
	// MaxSourceChars caps text kept per extracted page.
	MaxSourceChars int
	// ExcerptChars caps the per-source excerpt inside the prompt.
	ExcerptChars int

	// Policy lists; nil means package defaults.
	WhitelistDomains []string
	AuthorityHints   []string
	AllowedOrigins   []string

	Verbose bool
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ValidateConfig checks the settings that must be present before serving
// traffic. Missing secrets are a startup failure, not a runtime condition.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		return errors.New("config: LLM_API_KEY is required")
	}
	if strings.TrimSpace(cfg.FileSearchPath) == "" {
		if strings.TrimSpace(cfg.GoogleAPIKey) == "" {
			return errors.New("config: GSEARCH_API_KEY is required")
		}
		if strings.TrimSpace(cfg.SearchEngineID) == "" {
			return errors.New("config: SEARCH_ENGINE_ID is required")
		}
	}
	if cfg.MaxSourceChars < 0 || cfg.ExcerptChars < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
