// Package crossref provides a SearchProvider for the CrossRef REST API.
//
// API documentation: https://api.crossref.org/swagger-ui/index.html
package crossref

// worksResponse is the envelope returned by the /works endpoint.
type worksResponse struct {
	Status  string  `json:"status"`
	Message message `json:"message"`
}

// workResponse is the envelope returned by /works/{doi}.
type workResponse struct {
	Status  string `json:"status"`
	Message work   `json:"message"`
}

type message struct {
	TotalResults int    `json:"total-results"`
	Items        []work `json:"items"`
}

// work is a single CrossRef work record. Only the fields used for
// normalization are declared.
type work struct {
	DOI             string     `json:"DOI"`
	Title           []string   `json:"title"`
	Author          []author   `json:"author"`
	Issued          dateParts  `json:"issued"`
	Published       *dateParts `json:"published,omitempty"`
	ReferencedCount int        `json:"is-referenced-by-count"`
	URL             string     `json:"URL"`
	Abstract        string     `json:"abstract"`
	Type            string     `json:"type"`
}

type author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

// dateParts represents CrossRef's nested date encoding, e.g.
// {"date-parts": [[2023, 5, 12]]}.
type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the year component, or 0 when absent.
func (d dateParts) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
