// Package flat implements the vector index as an exact scan over an
// in-memory table of vectors. No approximation, no tuning knobs; for an
// archive of a few thousand canonical records a full scan is faster than
// maintaining a graph index, and the results are exact.
package flat

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
)

// Ensure Index implements the port.
var _ driven.VectorIndex = (*Index)(nil)

// Index keeps ids and vectors in parallel slices. Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	ids     []string
	vectors [][]float32
	slots   map[string]int
}

// New creates an empty index.
func New() *Index {
	return &Index{slots: make(map[string]int)}
}

// Add inserts vectors for the given record IDs. A known ID has its vector
// replaced in place, so re-indexing does not grow the table.
func (i *Index) Add(ids []string, vecs [][]float32) error {
	if len(ids) != len(vecs) {
		return fmt.Errorf("got %d ids for %d vectors", len(ids), len(vecs))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for n, id := range ids {
		if slot, ok := i.slots[id]; ok {
			i.vectors[slot] = vecs[n]
			continue
		}
		i.slots[id] = len(i.ids)
		i.ids = append(i.ids, id)
		i.vectors = append(i.vectors, vecs[n])
	}
	return nil
}

// Search scans every vector and returns the k nearest by L2 distance,
// closest first. Ties keep insertion order.
func (i *Index) Search(query []float32, k int) ([]driven.Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if k <= 0 || len(i.ids) == 0 {
		return nil, nil
	}
	if len(query) != len(i.vectors[0]) {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d",
			len(query), len(i.vectors[0]))
	}

	hits := make([]driven.Hit, len(i.ids))
	for n, vec := range i.vectors {
		hits[n] = driven.Hit{ID: i.ids[n], Score: l2(query, vec)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score < hits[b].Score })

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes the given record IDs. Unknown IDs are ignored.
func (i *Index) Delete(ids []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	keptIDs := make([]string, 0, len(i.ids))
	keptVecs := make([][]float32, 0, len(i.vectors))
	for n, id := range i.ids {
		if _, gone := drop[id]; gone {
			continue
		}
		keptIDs = append(keptIDs, id)
		keptVecs = append(keptVecs, i.vectors[n])
	}

	i.ids, i.vectors = keptIDs, keptVecs
	i.slots = make(map[string]int, len(keptIDs))
	for n, id := range keptIDs {
		i.slots[id] = n
	}
	return nil
}

// Len reports how many vectors the index holds.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ids)
}

// persisted is the gob wire form of the index.
type persisted struct {
	IDs     []string
	Vectors [][]float32
}

// Save writes the index to the given path.
func (i *Index) Save(path string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(persisted{IDs: i.ids, Vectors: i.vectors}); err != nil {
		f.Close()
		return fmt.Errorf("encoding index: %w", err)
	}
	return f.Close()
}

// Load replaces the index contents from the given path.
func (i *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var snapshot persisted
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		return fmt.Errorf("decoding index file %s: %w", path, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids = snapshot.IDs
	i.vectors = snapshot.Vectors
	i.slots = make(map[string]int, len(snapshot.IDs))
	for n, id := range snapshot.IDs {
		i.slots[id] = n
	}
	return nil
}

func l2(a, b []float32) float32 {
	var sum float32
	for n := range a {
		d := a[n] - b[n]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum)))
}
