// Package vector implements an exact inner-product nearest-neighbor index
// over unit-normalized embeddings.
package vector

import (
	"fmt"
	"math"
	"sort"
)

// OverfetchFactor controls how many candidates a search returns relative to k,
// leaving room for post-filtering during fusion.
const OverfetchFactor = 2

// Hit is a nearest-neighbor candidate.
type Hit struct {
	Key   string
	Score float64
	Rank  int // provisional 1-based rank within this method
}

// Index stores normalized document vectors for inner-product search.
// Immutable after Build; safe for concurrent reads.
type Index struct {
	dim           int
	keys          []string
	vectors       [][]float32
	minSimilarity float64
}

// New creates an empty index with the given similarity threshold.
func New(minSimilarity float64) *Index {
	return &Index{minSimilarity: minSimilarity}
}

// Build replaces the index contents with the given key/vector pairs.
// Vectors are normalized to unit length; inner product then equals cosine
// similarity. Zero vectors are rejected.
func (ix *Index) Build(keys []string, vectors [][]float32) error {
	if len(keys) != len(vectors) {
		return fmt.Errorf("keys/vectors length mismatch: %d != %d", len(keys), len(vectors))
	}
	if len(vectors) == 0 {
		ix.keys, ix.vectors, ix.dim = nil, nil, 0
		return nil
	}

	dim := len(vectors[0])
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d dimension mismatch: %d != %d", i, len(v), dim)
		}
		nv, ok := Normalize(v)
		if !ok {
			return fmt.Errorf("vector %d has zero norm", i)
		}
		normalized[i] = nv
	}

	ix.dim = dim
	ix.keys = append([]string(nil), keys...)
	ix.vectors = normalized
	return nil
}

// Size returns the number of indexed vectors.
func (ix *Index) Size() int { return len(ix.keys) }

// Search returns up to OverfetchFactor*k nearest candidates by inner product,
// dropping those below the similarity threshold. An empty index returns an
// empty list, not an error. Ordering is deterministic: score descending,
// insertion order on ties.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if ix.Size() == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query dimension mismatch: %d != %d", len(query), ix.dim)
	}
	q, ok := Normalize(query)
	if !ok {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	candidates := make([]scored, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		s := dot(q, v)
		if s < ix.minSimilarity {
			continue
		}
		candidates = append(candidates, scored{idx: i, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limit := OverfetchFactor * k
	if limit > len(candidates) {
		limit = len(candidates)
	}

	hits := make([]Hit, limit)
	for i := 0; i < limit; i++ {
		hits[i] = Hit{
			Key:   ix.keys[candidates[i].idx],
			Score: candidates[i].score,
			Rank:  i + 1,
		}
	}
	return hits, nil
}

// Normalize scales a vector to unit length. Returns false for zero vectors.
func Normalize(v []float32) ([]float32, bool) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, false
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, true
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
