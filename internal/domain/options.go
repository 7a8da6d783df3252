package domain

// Sort keys accepted by the ranker.
const (
	SortByRelevance = "relevance"
	SortByCitations = "citations"
	SortByYear      = "year"
)

// DefaultLimit is the result-count limit applied when the caller does not
// request one.
const DefaultLimit = 20

// MaxLimit bounds the result-count limit a caller may request.
const MaxLimit = 100

// YearRange is an inclusive publication-year filter.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the range carries usable bounds.
func (r YearRange) Valid() bool {
	return r.Start > 0 && r.End > 0 && r.Start <= r.End
}

// Contains reports whether year falls inside the inclusive range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// SearchOptions carries the optional filter and ranking selections for one
// search request. The zero value means: no filters, sort by relevance,
// default limit.
type SearchOptions struct {
	// YearRange restricts results to an inclusive publication-year window.
	// A nil range applies no year filter.
	YearRange *YearRange `json:"year_range,omitempty"`

	// Sources is a source-name allow-list. When non-empty, only papers whose
	// Source matches one of the entries are kept.
	Sources []string `json:"sources,omitempty"`

	// MinCitations drops papers with fewer citations. Zero applies no filter.
	MinCitations int `json:"min_citations,omitempty"`

	// SortBy selects the ranking key: relevance (default), citations, or year.
	SortBy string `json:"sort_by,omitempty"`

	// Limit truncates the ranked result set. Zero means DefaultLimit.
	Limit int `json:"limit,omitempty"`
}

// Normalize fills defaults and clamps the limit. It returns the receiver for
// chaining.
func (o *SearchOptions) Normalize() *SearchOptions {
	if o.SortBy == "" {
		o.SortBy = SortByRelevance
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

// AllowsSource reports whether the source allow-list admits the given source
// name. An empty allow-list admits every source.
func (o *SearchOptions) AllowsSource(source string) bool {
	if len(o.Sources) == 0 {
		return true
	}
	for _, s := range o.Sources {
		if s == source {
			return true
		}
	}
	return false
}
