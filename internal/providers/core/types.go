// Package core provides a SearchProvider for the CORE v3 API.
//
// API documentation: https://api.core.ac.uk/docs/v3
package core

// searchRequest is the body posted to /search/works.
type searchRequest struct {
	Q      string `json:"q"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset,omitempty"`
}

// searchResponse is the envelope returned by /search/works.
type searchResponse struct {
	TotalHits int          `json:"totalHits"`
	Limit     int          `json:"limit"`
	Offset    int          `json:"offset"`
	Results   []workResult `json:"results"`
}

// workResult is a single CORE work record.
type workResult struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract"`
	YearPublished int      `json:"yearPublished"`
	DOI           string   `json:"doi"`
	DownloadURL   string   `json:"downloadUrl"`
	CitationCount int      `json:"citationCount"`
	Authors       []author `json:"authors"`
	Links         []link   `json:"links"`
}

type author struct {
	Name string `json:"name"`
}

type link struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
