// Package query turns raw user queries into the expanded term sets and
// scoring keywords used by the aggregation pipeline.
package query

import (
	"strings"
)

// minKeywordLength is the exclusive lower bound on scoring-keyword length;
// tokens of this length or shorter are dropped.
const minKeywordLength = 2

// academicSynonyms maps common abbreviations and overloaded terms to the
// phrases papers actually use in titles and abstracts. Expansion is one
// level deep: synonyms of synonyms are not expanded.
var academicSynonyms = map[string][]string{
	"ai":             {"artificial intelligence", "machine learning", "deep learning"},
	"ml":             {"machine learning", "deep learning", "neural networks"},
	"dl":             {"deep learning", "neural networks", "machine learning"},
	"nlp":            {"natural language processing", "text analysis", "language model"},
	"cv":             {"computer vision", "image processing", "visual recognition"},
	"nn":             {"neural network", "deep learning", "artificial neural network"},
	"gan":            {"generative adversarial network", "generative model"},
	"transformer":    {"attention mechanism", "language model", "bert"},
	"bert":           {"bidirectional encoder", "language model", "transformer"},
	"gpu":            {"graphics processing unit", "cuda", "parallel computing"},
	"distributed":    {"parallel", "concurrent", "cluster computing"},
	"optimization":   {"gradient descent", "backpropagation", "learning rate"},
	"classification": {"categorization", "prediction", "pattern recognition"},
	"segmentation":   {"partitioning", "object detection", "image analysis"},
}

// Expand lower-cases the query, splits it on whitespace, and unions the
// terms with the listed synonyms of every term found in the synonym table.
// The result is a space-joined string preserving first-seen order, so the
// expanded token set is always a superset of the original query's tokens.
// Empty input yields empty output.
func Expand(q string) string {
	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(terms))
	expanded := make([]string, 0, len(terms))

	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		expanded = append(expanded, term)
	}

	for _, term := range terms {
		add(term)
		for _, synonym := range academicSynonyms[term] {
			add(synonym)
		}
	}

	return strings.Join(expanded, " ")
}

// Keywords tokenizes an (already expanded) query and returns the lowercased
// tokens longer than two characters, preserving order and dropping
// duplicates. These are the terms the scorer matches against titles and
// abstracts.
func Keywords(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= minKeywordLength {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		keywords = append(keywords, f)
	}
	return keywords
}

// Synonyms returns the synonym list for a term, or nil when the term is not
// in the table. The returned slice must not be modified.
func Synonyms(term string) []string {
	return academicSynonyms[strings.ToLower(term)]
}
