package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. It carries
// the tunables that are awkward as flags: origin allow-lists, domain
// whitelists, and authority hints.
type FileConfig struct {
	Listen string `yaml:"listen" json:"listen"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Google struct {
		APIKey   string `yaml:"key" json:"key"`
		EngineID string `yaml:"engineID" json:"engineID"`
	} `yaml:"google" json:"google"`

	Search struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"search" json:"search"`

	Fetch struct {
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`

	Max struct {
		SourceChars  int `yaml:"sourceChars" json:"sourceChars"`
		ExcerptChars int `yaml:"excerptChars" json:"excerptChars"`
	} `yaml:"max" json:"max"`

	CORS struct {
		Origins []string `yaml:"origins" json:"origins"`
	} `yaml:"cors" json:"cors"`

	Whitelist      []string `yaml:"whitelist" json:"whitelist"`
	AuthorityHints []string `yaml:"authorityHints" json:"authorityHints"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields that
// are still unset, keeping flag and env values authoritative.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.ListenAddr == "" && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if cfg.GoogleAPIKey == "" && fc.Google.APIKey != "" {
		cfg.GoogleAPIKey = fc.Google.APIKey
	}
	if cfg.SearchEngineID == "" && fc.Google.EngineID != "" {
		cfg.SearchEngineID = fc.Google.EngineID
	}
	if cfg.FileSearchPath == "" && fc.Search.File != "" {
		cfg.FileSearchPath = fc.Search.File
	}

	if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.MaxSourceChars == 0 && fc.Max.SourceChars > 0 {
		cfg.MaxSourceChars = fc.Max.SourceChars
	}
	if cfg.ExcerptChars == 0 && fc.Max.ExcerptChars > 0 {
		cfg.ExcerptChars = fc.Max.ExcerptChars
	}

	if len(cfg.AllowedOrigins) == 0 && len(fc.CORS.Origins) > 0 {
		cfg.AllowedOrigins = append([]string{}, fc.CORS.Origins...)
	}
	if len(cfg.WhitelistDomains) == 0 && len(fc.Whitelist) > 0 {
		cfg.WhitelistDomains = append([]string{}, fc.Whitelist...)
	}
	if len(cfg.AuthorityHints) == 0 && len(fc.AuthorityHints) > 0 {
		cfg.AuthorityHints = append([]string{}, fc.AuthorityHints...)
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
