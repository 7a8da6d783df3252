package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/researchx/discovery-service/internal/domain"
	"github.com/researchx/discovery-service/internal/search"
)

// Response types for JSON serialization.

type searchResponse struct {
	Query        string          `json:"query"`
	Topics       []string        `json:"topics,omitempty"`
	ResultCount  int             `json:"result_count"`
	SourcesAsked int             `json:"sources_asked"`
	FallbackUsed bool            `json:"fallback_used"`
	DurationMS   int64           `json:"duration_ms"`
	Papers       []paperResponse `json:"papers"`
}

type paperResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	Year           int      `json:"year"`
	Citations      int      `json:"citations"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
	Abstract       string   `json:"abstract,omitempty"`
	DOI            string   `json:"doi,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

type paperDetailsResponse struct {
	Paper   paperResponse   `json:"paper"`
	Similar []paperResponse `json:"similar,omitempty"`
}

type suggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type sourcesResponse struct {
	Sources []string `json:"sources"`
}

func searchResultToResponse(result *search.Result) searchResponse {
	papers := make([]paperResponse, len(result.Papers))
	for i, p := range result.Papers {
		papers[i] = paperToResponse(p)
	}
	return searchResponse{
		Query:        result.Query,
		Topics:       result.Topics,
		ResultCount:  len(result.Papers),
		SourcesAsked: result.SourcesAsked,
		FallbackUsed: result.FallbackUsed,
		DurationMS:   result.Duration.Milliseconds(),
		Papers:       papers,
	}
}

func paperToResponse(p *domain.Paper) paperResponse {
	authors := p.Authors
	if authors == nil {
		authors = []string{}
	}
	return paperResponse{
		ID:             p.ID,
		Title:          p.Title,
		Authors:        authors,
		Year:           p.Year,
		Citations:      p.Citations,
		URL:            p.URL,
		Source:         p.Source,
		Abstract:       p.Abstract,
		DOI:            p.DOI,
		RelevanceScore: p.RelevanceScore,
	}
}

func paperDetailsToResponse(details *search.PaperDetails) paperDetailsResponse {
	resp := paperDetailsResponse{Paper: paperToResponse(details.Paper)}
	for _, p := range details.Similar {
		resp.Similar = append(resp.Similar, paperToResponse(p))
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// writeDomainError maps domain errors to HTTP status codes. Internal error
// details are not leaked to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "paper not found")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate limited")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusRequestTimeout, "request cancelled")
	default:
		writeError(w, http.StatusBadGateway, "upstream source error")
	}
}
