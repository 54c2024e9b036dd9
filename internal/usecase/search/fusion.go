package search

import (
	"sort"

	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/search/filter"
	"github.com/nusahr/hrsearch/internal/domain/search/result"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

// fuse merges per-method candidate sets into one ranked list.
//
// Each candidate contributes similarity * method weight * entity weight to its
// document's combined score. Contributions across methods are summed, not
// max'd, so documents found by both methods rank above single-method hits of
// equal similarity. Sorting is stable with discovery order as the implicit
// tie-break, which keeps the final ordering deterministic.
func fuse(
	candidates []result.Candidate,
	weights Weights,
	f filter.Filter,
	maxResults int,
) []result.Ranked {
	type accum struct {
		doc      document.Document
		combined float64
		methods  []searchtype.Type
	}

	byKey := make(map[string]*accum, len(candidates))
	order := make([]string, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		doc := c.Document()
		w := methodWeight(weights, c.SearchType())
		contribution := c.Similarity() * w * doc.Weight()

		key := doc.Key()
		a, ok := byKey[key]
		if !ok {
			a = &accum{doc: doc}
			byKey[key] = a
			order = append(order, key)
		}
		a.combined += contribution
		if !searchtype.Contains(a.methods, c.SearchType()) {
			a.methods = append(a.methods, c.SearchType())
		}
	}

	// Filter in discovery order, then stable sort by combined score.
	fused := make([]result.Ranked, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		if !f.AllowsEntity(a.doc.EntityType()) {
			continue
		}
		if !f.AllowsDate(a.doc.CreatedAt()) {
			continue
		}
		if a.combined < f.MinScore() {
			continue
		}
		fused = append(fused, result.NewRanked(a.doc, a.combined, a.methods, 0))
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].CombinedScore() > fused[j].CombinedScore()
	})

	if len(fused) > maxResults {
		fused = fused[:maxResults]
	}
	for i := range fused {
		fused[i] = fused[i].WithFinalRank(i + 1)
	}
	return fused
}

func methodWeight(w Weights, t searchtype.Type) float64 {
	switch t {
	case searchtype.Semantic:
		return w.Semantic
	case searchtype.Keyword:
		return w.Keyword
	default:
		return 0
	}
}
