package app

import (
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nlsearch/answerd/internal/extract"
	"github.com/nlsearch/answerd/internal/fetch"
	"github.com/nlsearch/answerd/internal/llm"
	"github.com/nlsearch/answerd/internal/qualify"
	"github.com/nlsearch/answerd/internal/search"
	"github.com/nlsearch/answerd/internal/synth"
)

// New wires a Pipeline from configuration. The HTTP client is shared by the
// search provider and the page fetcher so connections are reused across a
// request's sequential calls.
func New(cfg Config) *Pipeline {
	httpClient := newHTTPClient()

	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	transportCfg.HTTPClient = httpClient
	ai := &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}

	model := cfg.LLMModel
	if model == "" {
		model = DefaultModel
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}

	var provider search.Provider
	if cfg.FileSearchPath != "" {
		provider = &search.FileProvider{Path: cfg.FileSearchPath}
	} else {
		provider = &search.GoogleCSE{
			APIKey:     cfg.GoogleAPIKey,
			EngineID:   cfg.SearchEngineID,
			HTTPClient: httpClient,
			UserAgent:  ua,
		}
	}

	extractor := &extract.ReadabilityExtractor{
		Fetcher: &fetch.Client{
			HTTPClient:        httpClient,
			UserAgent:         ua,
			PerRequestTimeout: fetchTimeout,
			RedirectMaxHops:   5,
		},
		Timeout: fetchTimeout,
	}

	return &Pipeline{
		Provider: provider,
		Qualifier: &qualify.Qualifier{
			Extractor:       extractor,
			MaxContentChars: cfg.MaxSourceChars,
			Whitelist:       cfg.WhitelistDomains,
		},
		Synth: &synth.Synthesizer{
			Client:       ai,
			Model:        model,
			ExcerptChars: cfg.ExcerptChars,
		},
		AuthorityHints: cfg.AuthorityHints,
	}
}

// newHTTPClient returns a client tuned for many sequential requests against
// varied hosts, with timeouts that avoid hangs on unresponsive pages.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}
