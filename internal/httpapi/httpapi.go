// Package httpapi exposes the answer pipeline at the service boundary:
// POST /search and GET /health, with CORS for the local front end.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nlsearch/answerd/internal/app"
)

// Answerer is the pipeline surface the handler depends on.
type Answerer interface {
	Answer(ctx context.Context, query string, k int) (string, []app.SlimSource, error)
}

// Handler serves the search API over a pipeline.
type Handler struct {
	Pipeline Answerer
}

// RegisterRoutes registers the API routes on the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/search", h.handleSearch)
	mux.HandleFunc("/health", h.handleHealth)
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Query   string           `json:"query"`
	Answer  string           `json:"answer"`
	Sources []app.SlimSource `json:"sources"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeDetail(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, sources, err := h.Pipeline.Answer(r.Context(), req.Query, req.K)
	if err != nil {
		status, detail := mapError(err)
		log.Warn().Err(err).Str("query", req.Query).Int("status", status).Msg("search request failed")
		writeDetail(w, status, detail)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Query: req.Query, Answer: answer, Sources: sources})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// mapError translates pipeline failures onto the API contract: empty search
// is the client's problem, an LLM provider fault is an upstream 502, and
// anything else is a plain 500.
func mapError(err error) (int, string) {
	if errors.Is(err, app.ErrNoResults) {
		return http.StatusBadRequest, "No search results. Check search engine settings."
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, "LLM error: " + err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
