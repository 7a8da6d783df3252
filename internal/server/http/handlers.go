package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/researchx/discovery-service/internal/domain"
)

var validate = validator.New()

// searchRequest is the decoded and validated form of the search query
// parameters.
type searchRequest struct {
	Query        string `validate:"required,min=2,max=500"`
	YearFrom     int    `validate:"omitempty,min=1000,max=3000"`
	YearTo       int    `validate:"omitempty,min=1000,max=3000"`
	Sources      []string
	MinCitations int    `validate:"min=0"`
	SortBy       string `validate:"omitempty,oneof=relevance citations year"`
	Limit        int    `validate:"min=0,max=100"`
}

// parseSearchRequest decodes the query string into a searchRequest. Numeric
// parameters that fail to parse are reported as field errors rather than
// silently ignored.
func parseSearchRequest(r *http.Request) (*searchRequest, error) {
	q := r.URL.Query()

	req := &searchRequest{
		Query:  strings.TrimSpace(q.Get("q")),
		SortBy: q.Get("sort_by"),
	}

	var err error
	if req.YearFrom, err = intParam(q.Get("year_from")); err != nil {
		return nil, domain.NewValidationError("year_from", "must be an integer")
	}
	if req.YearTo, err = intParam(q.Get("year_to")); err != nil {
		return nil, domain.NewValidationError("year_to", "must be an integer")
	}
	if req.MinCitations, err = intParam(q.Get("min_citations")); err != nil {
		return nil, domain.NewValidationError("min_citations", "must be an integer")
	}
	if req.Limit, err = intParam(q.Get("limit")); err != nil {
		return nil, domain.NewValidationError("limit", "must be an integer")
	}

	if sources := q.Get("sources"); sources != "" {
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Sources = append(req.Sources, s)
			}
		}
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, domain.NewValidationError(strings.ToLower(fe.Field()), validationMessage(fe))
		}
		return nil, domain.NewValidationError("query", "invalid parameters")
	}

	if req.YearFrom > 0 && req.YearTo > 0 && req.YearFrom > req.YearTo {
		return nil, domain.NewValidationError("year_from", "must not exceed year_to")
	}

	return req, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}

// toSearchOptions converts the validated request into search options.
func (req *searchRequest) toSearchOptions() *domain.SearchOptions {
	opts := &domain.SearchOptions{
		Sources:      req.Sources,
		MinCitations: req.MinCitations,
		SortBy:       req.SortBy,
		Limit:        req.Limit,
	}
	if req.YearFrom > 0 || req.YearTo > 0 {
		yr := &domain.YearRange{Start: req.YearFrom, End: req.YearTo}
		if yr.Start == 0 {
			yr.Start = 1
		}
		if yr.End == 0 {
			yr.End = 3000
		}
		opts.YearRange = yr
	}
	return opts
}

// searchPapers handles GET /api/v1/papers/search. A well-formed search
// always succeeds: provider failures and empty result sets are absorbed by
// the aggregation pipeline, so the only client-visible failures are
// validation errors.
func (s *Server) searchPapers(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := s.search.Search(r.Context(), req.Query, req.toSearchOptions())
	if err != nil {
		// Only context cancellation reaches here; the client is gone.
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToResponse(result))
}

// suggestTitles handles GET /api/v1/papers/suggest.
func (s *Server) suggestTitles(w http.ResponseWriter, r *http.Request) {
	partial := strings.TrimSpace(r.URL.Query().Get("q"))

	suggestions := s.search.Suggest(partial)
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Query:       partial,
		Suggestions: suggestions,
	})
}

// listSources handles GET /api/v1/papers/sources.
func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sourcesResponse{Sources: s.search.Sources()})
}

// getPaper handles GET /api/v1/papers/{source}/{paperID}.
func (s *Server) getPaper(w http.ResponseWriter, r *http.Request) {
	source := domain.SourceType(chi.URLParam(r, "source"))
	paperID := chi.URLParam(r, "paperID")

	if paperID == "" {
		writeDomainError(w, domain.NewValidationError("paper_id", "is required"))
		return
	}

	details, err := s.search.GetPaperDetails(r.Context(), source, paperID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paperDetailsToResponse(details))
}
