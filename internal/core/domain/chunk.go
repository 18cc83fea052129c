package domain

// Source values carried in chunk metadata. Government policy documents get
// preferential ranking and a higher citation reliability tier.
const (
	SourceGovernmentPolicy  = "government_policy"
	SourceGovernmentDataset = "government_dataset"
)

// KnowledgeChunk is the atomic retrievable unit: a bounded piece of source
// text with its embedding and domain metadata. Chunks are created by the
// ingestion side, inserted into the vector index once and never mutated.
type KnowledgeChunk struct {
	// ID is the stable unique identifier for the chunk.
	ID string `json:"id"`

	// Text is the chunk content. Non-empty; the ingestion side bounds its
	// length, the engine never re-splits it.
	Text string `json:"text"`

	// Embedding is the L2-normalised vector representation. Unit norm is
	// an invariant: dot product between two embeddings equals their
	// cosine similarity.
	Embedding []float32 `json:"-"`

	// Metadata carries the domain fields used for filtering and boosting.
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata is the fixed-schema metadata record attached to a chunk.
// Absent string fields are empty strings; an absent year is a nil pointer,
// which is distinct from year zero.
type ChunkMetadata struct {
	// Source identifies the provenance class, e.g. government_policy,
	// government_dataset, data.gov.in, imd.
	Source string `json:"source,omitempty"`

	// State is the Indian state the data refers to, if any.
	State string `json:"state,omitempty"`

	// Crop is the crop the data refers to, if any.
	Crop string `json:"crop,omitempty"`

	// Year is the data vintage. Nil when unknown.
	Year *int `json:"year,omitempty"`

	// Category is a free-form topic label such as "agriculture_statistics".
	Category string `json:"category,omitempty"`

	// Scheme is the canonical government scheme id, if the chunk describes one.
	Scheme string `json:"scheme,omitempty"`

	// Budget is the allocation figure as published, verbatim.
	Budget string `json:"budget,omitempty"`

	// FocusArea is the policy focus area, if any.
	FocusArea string `json:"focus_area,omitempty"`

	// URL is the upstream document location.
	URL string `json:"url,omitempty"`
}

// YearValue returns the metadata year, or 0 when absent.
func (m ChunkMetadata) YearValue() int {
	if m.Year == nil {
		return 0
	}
	return *m.Year
}
