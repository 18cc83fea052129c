package domain

// Citation reliability tiers. Government policy sources are High; everything
// else that made it into the index is Verified.
const (
	ReliabilityHigh     = "High"
	ReliabilityVerified = "Verified"
)

// Placeholder values substituted for absent policy metadata. Centralised
// here so every surface renders the same defaults.
const (
	UnknownScheme     = "Unknown Scheme"
	UnspecifiedBudget = "Not specified"
	DefaultPolicyYear = 2025
	DefaultCategory   = "agricultural_policy"
	DefaultFocusArea  = "General Agriculture"
)

// RetrievalCandidate is a per-query, per-chunk scoring record.
//
// RawScore is the ANN distance: lower means more similar. Weight is the
// cumulative relevance multiplier and never drops below 1, so AdjustedScore
// is never worse (higher) than RawScore.
type RetrievalCandidate struct {
	// Chunk is the retrieved knowledge chunk.
	Chunk KnowledgeChunk `json:"chunk"`

	// RawScore is the distance reported by the vector index.
	RawScore float64 `json:"raw_score"`

	// Weight is the cumulative relevance boost, >= 1.
	Weight float64 `json:"weight"`

	// AdjustedScore is RawScore / Weight; the final ranking key.
	AdjustedScore float64 `json:"adjusted_score"`
}

// Citation is a resolved inline source marker from a generated answer.
type Citation struct {
	// ID is the 1-based marker number as it appeared in the answer text.
	ID int `json:"id"`

	// Source is the provenance class of the cited chunk.
	Source string `json:"source,omitempty"`

	// URL is the upstream document location.
	URL string `json:"url,omitempty"`

	// State is the cited chunk's state, if any.
	State string `json:"state,omitempty"`

	// Year is the cited chunk's data vintage, if known.
	Year *int `json:"year,omitempty"`

	// Category is the cited chunk's topic label.
	Category string `json:"category,omitempty"`

	// Scheme is the cited chunk's scheme id, if any.
	Scheme string `json:"scheme,omitempty"`

	// Reliability is High for government policy sources, else Verified.
	Reliability string `json:"reliability"`
}

// PolicyRecord summarises one government policy chunk from the context.
// Absent metadata fields are replaced by fixed placeholders.
type PolicyRecord struct {
	Scheme    string `json:"scheme"`
	Budget    string `json:"budget"`
	Year      int    `json:"year"`
	Category  string `json:"category"`
	FocusArea string `json:"focus_area"`
}

// NewPolicyRecord builds a PolicyRecord from chunk metadata, substituting
// the documented placeholders for absent fields.
func NewPolicyRecord(m ChunkMetadata) PolicyRecord {
	r := PolicyRecord{
		Scheme:    m.Scheme,
		Budget:    m.Budget,
		Year:      DefaultPolicyYear,
		Category:  m.Category,
		FocusArea: m.FocusArea,
	}
	if r.Scheme == "" {
		r.Scheme = UnknownScheme
	}
	if r.Budget == "" {
		r.Budget = UnspecifiedBudget
	}
	if m.Year != nil {
		r.Year = *m.Year
	}
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	if r.FocusArea == "" {
		r.FocusArea = DefaultFocusArea
	}
	return r
}

// Reliability returns the citation reliability tier for chunk metadata.
func (m ChunkMetadata) Reliability() string {
	if m.Source == SourceGovernmentPolicy {
		return ReliabilityHigh
	}
	return ReliabilityVerified
}

// Answer is the assembled response to one question.
type Answer struct {
	// Text is the generated (or fallback) answer.
	Text string `json:"answer"`

	// Citations are the resolved inline source markers.
	Citations []Citation `json:"citations"`

	// PolicyContext summarises the government policy chunks in the context.
	PolicyContext []PolicyRecord `json:"policy_context"`

	// Context is the ranked chunk list the answer was generated against.
	Context []RetrievalCandidate `json:"-"`

	// Confidence is a [0,1] score derived from the context's adjusted scores.
	Confidence float64 `json:"confidence_score"`

	// Degraded is true when the generation backend was unavailable and the
	// answer was assembled from chunk text by template.
	Degraded bool `json:"degraded,omitempty"`
}
