// Package keyword implements lexical retrieval: a TF-IDF vectorizer with
// cosine ranking, degrading to a naive term-overlap scorer when the
// vectorizer cannot be fitted.
package keyword

import "sort"

// OverfetchFactor controls how many candidates a search returns relative to k.
const OverfetchFactor = 2

// Doc is the indexable projection of a document.
type Doc struct {
	Key       string
	Text      string
	BoostText string // concatenated boost-field display values
}

// Hit is a lexical retrieval candidate.
type Hit struct {
	Key   string
	Score float64
	Rank  int // provisional 1-based rank within this method
}

type scoringMode int

const (
	modeTFIDF scoringMode = iota
	modeOverlap
)

type docEntry struct {
	key        string
	vec        map[int]float64 // L2-normalized tf-idf, by vocabulary column
	terms      map[string]bool
	boostTerms map[string]bool
}

// Index is a fitted lexical index. Immutable after Build; safe for
// concurrent reads.
type Index struct {
	minSimilarity float64
	vocabCap      int
	mode          scoringMode

	vocab map[string]int
	idf   []float64
	docs  []docEntry
}

// New creates an empty keyword index.
func New(minSimilarity float64, vocabCap int) *Index {
	return &Index{minSimilarity: minSimilarity, vocabCap: vocabCap}
}

// NewOverlap creates an index pinned to overlap scoring, bypassing TF-IDF.
// Used when the vectorizer is disabled.
func NewOverlap(minSimilarity float64) *Index {
	return &Index{minSimilarity: minSimilarity, mode: modeOverlap}
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int { return len(ix.docs) }

// UsesFallback reports whether overlap scoring is active instead of TF-IDF.
func (ix *Index) UsesFallback() bool { return ix.mode == modeOverlap }

// Build replaces the index contents. Fitting the vectorizer over a corpus
// with an empty vocabulary (all terms stopworded) switches the index to
// overlap scoring instead of failing.
func (ix *Index) Build(docs []Doc) error {
	entries := make([]docEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, docEntry{
			key:        d.Key,
			terms:      termSet(tokenize(d.Text)),
			boostTerms: termSet(tokenize(d.BoostText)),
		})
	}
	ix.docs = entries

	if ix.mode == modeOverlap {
		return nil
	}

	if err := ix.fit(docs); err != nil {
		ix.mode = modeOverlap
		ix.vocab, ix.idf = nil, nil
	}
	return nil
}

// Search ranks all documents against the query and returns the top
// OverfetchFactor*k above the similarity threshold. Deterministic:
// score descending, insertion order on ties.
func (ix *Index) Search(query string, k int) []Hit {
	if len(ix.docs) == 0 {
		return nil
	}

	var scores []float64
	switch ix.mode {
	case modeTFIDF:
		scores = ix.scoreTFIDF(query)
	case modeOverlap:
		scores = ix.scoreOverlap(query)
	}

	type scored struct {
		idx   int
		score float64
	}
	candidates := make([]scored, 0, len(scores))
	for i, s := range scores {
		if s < ix.minSimilarity || s == 0 {
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
			Key:   ix.docs[candidates[i].idx].key,
			Score: candidates[i].score,
			Rank:  i + 1,
		}
	}
	return hits
}

func termSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
