package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// googleEndpoint is the Custom Search JSON API endpoint.
const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// perCallMax is the hard per-request result ceiling of the Custom Search API.
const perCallMax = 10

// GoogleCSE implements Provider against the Google Custom Search JSON API.
// EngineID scopes the search to a Programmable Search Engine (the cx value).
type GoogleCSE struct {
	APIKey     string
	EngineID   string
	BaseURL    string // overridable for tests; defaults to the Google endpoint
	HTTPClient *http.Client
	UserAgent  string
}

func (g *GoogleCSE) Name() string { return "google-cse" }

func (g *GoogleCSE) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if g.APIKey == "" || g.EngineID == "" {
		return nil, fmt.Errorf("google cse: missing api key or engine id")
	}
	if limit <= 0 || limit > perCallMax {
		limit = perCallMax
	}
	base := g.BaseURL
	if base == "" {
		base = googleEndpoint
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", g.APIKey)
	q.Set("cx", g.EngineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}
	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google cse: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("google cse status: %d", resp.StatusCode)
	}
	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("google cse decode: %w", err)
	}
	out := make([]Result, 0, len(gr.Items))
	for _, it := range gr.Items {
		if it.Link == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(it.Title),
			Link:    strings.TrimSpace(it.Link),
			Snippet: strings.TrimSpace(it.Snippet),
			Source:  g.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}
