package domain

// MatchOrigin says which retrieval path produced a hit.
type MatchOrigin string

const (
	// OriginExact marks hits from the exact-match scoring pre-filter.
	OriginExact MatchOrigin = "exact"

	// OriginSemantic marks hits from vector similarity search.
	OriginSemantic MatchOrigin = "semantic"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// SemanticOnly skips the exact-match pre-filter and ranks purely by
	// vector similarity.
	SemanticOnly bool
}

// SearchResult represents a single ranked hit.
type SearchResult struct {
	// Record is the matched canonical record.
	Record Record

	// Score is the relevance score. Exact hits carry the weighted
	// token-overlap sum; semantic hits carry a distance-derived score.
	Score float64

	// Origin says which retrieval path produced this hit.
	Origin MatchOrigin
}

// Answer is a generated response together with the records that
// supported it.
type Answer struct {
	// Text is the LLM's answer.
	Text string

	// Sources are the retrieved records the prompt was built from,
	// in rank order.
	Sources []SearchResult
}
