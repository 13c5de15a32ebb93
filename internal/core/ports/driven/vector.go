package driven

// VectorIndex provides semantic similarity search over record full texts.
// Backed by an exact flat index persisted beside the record store.
//
// The index holds one vector per canonical record, keyed by record ID.
// Implementations must be safe for concurrent use.
type VectorIndex interface {
	// Add inserts vectors for the given record IDs. ids and vecs must
	// have the same length.
	Add(ids []string, vecs [][]float32) error

	// Search finds the k nearest neighbours to the query vector.
	Search(query []float32, k int) ([]Hit, error)

	// Delete removes the given record IDs from the index.
	Delete(ids []string) error

	// Len reports how many vectors the index holds.
	Len() int

	// Save persists the index to the given path.
	Save(path string) error

	// Load restores the index from the given path.
	Load(path string) error
}

// Hit represents a similarity search result.
type Hit struct {
	// ID is the matched record.
	ID string

	// Score is the distance to the query; smaller is better.
	Score float32
}
