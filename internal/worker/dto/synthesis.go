package dto

// SynthesisResult is the structured payload produced by cluster
// synthesis, either parsed from the LLM response or assembled by the
// extractive fallback.
type SynthesisResult struct {
	Title        string   `json:"title"`
	Synthesis    string   `json:"synthesis"`
	KeyPoints    []string `json:"key_points"`
	WhyItMatters string   `json:"why_it_matters"`
	Topics       []string `json:"topics"`
	Entities     []string `json:"entities"`

	// FromCache and Fallback record provenance for logging; they are
	// not persisted.
	FromCache bool `json:"-"`
	Fallback  bool `json:"-"`
}

// GroupSummary is the output of one map pass over an article group.
type GroupSummary struct {
	Summary  string   `json:"summary"`
	KeyFacts []string `json:"key_facts"`
	Entities []string `json:"entities"`
}

// EntityExtractionResult is the raw JSON shape returned by the entity
// extraction prompt.
type EntityExtractionResult struct {
	Companies    []string `json:"companies"`
	Products     []string `json:"products"`
	People       []string `json:"people"`
	Technologies []string `json:"technologies"`
	Locations    []string `json:"locations"`
}
