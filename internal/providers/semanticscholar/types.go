// Package semanticscholar provides a SearchProvider for the Semantic Scholar
// Graph API.
//
// API documentation: https://api.semanticscholar.org/api-docs/
package semanticscholar

// SearchResponse represents the response from the paper search endpoint.
type SearchResponse struct {
	// Total is the total number of papers matching the query.
	Total int `json:"total"`

	// Offset is the current offset in the result set.
	Offset int `json:"offset"`

	// Next is the offset of the next page; 0 means no more results.
	Next int `json:"next"`

	// Data contains the papers returned by the search.
	Data []PaperResult `json:"data"`
}

// PaperResult represents a single paper in the API response.
type PaperResult struct {
	PaperID       string       `json:"paperId"`
	Title         string       `json:"title"`
	Abstract      string       `json:"abstract"`
	Year          int          `json:"year"`
	URL           string       `json:"url"`
	CitationCount int          `json:"citationCount"`
	Authors       []Author     `json:"authors"`
	ExternalIDs   *ExternalIDs `json:"externalIds,omitempty"`
}

// Author represents a paper author in the API response.
type Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// ExternalIDs carries external identifiers for a paper.
type ExternalIDs struct {
	DOI   string `json:"DOI,omitempty"`
	ArXiv string `json:"ArXiv,omitempty"`
}

// ErrorResponse represents an error payload from the API.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
