package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values (from flags or a config file) take precedence.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = os.Getenv("GSEARCH_API_KEY")
	}
	if cfg.SearchEngineID == "" {
		cfg.SearchEngineID = os.Getenv("SEARCH_ENGINE_ID")
	}
	if cfg.FileSearchPath == "" {
		cfg.FileSearchPath = os.Getenv("SEARCH_FILE")
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("USER_AGENT")
	}
	if cfg.FetchTimeout == 0 {
		if s := os.Getenv("FETCH_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.FetchTimeout = d
			}
		}
	}
	if cfg.MaxSourceChars == 0 {
		if n, err := strconv.Atoi(os.Getenv("MAX_SOURCE_CHARS")); err == nil && n > 0 {
			cfg.MaxSourceChars = n
		}
	}

	if !cfg.Verbose {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		}
	}
}
