package keyword

import (
	"fmt"
	"math"
	"sort"
)

// fit builds the vocabulary (unigrams and bigrams, stopword-filtered, capped
// by collection frequency) and per-document normalized tf-idf vectors.
func (ix *Index) fit(docs []Doc) error {
	// Collection and document frequencies over the candidate vocabulary.
	collFreq := make(map[string]int)
	docFreq := make(map[string]int)
	perDoc := make([]map[string]int, len(docs))

	for i, d := range docs {
		counts := ngramCounts(tokenize(d.Text))
		perDoc[i] = counts
		for term, c := range counts {
			collFreq[term] += c
			docFreq[term]++
		}
	}

	if len(collFreq) == 0 {
		return fmt.Errorf("empty vocabulary")
	}

	// Cap the vocabulary by collection frequency, alphabetical on ties, for
	// memory bounds and deterministic fitting.
	terms := make([]string, 0, len(collFreq))
	for t := range collFreq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if collFreq[terms[i]] != collFreq[terms[j]] {
			return collFreq[terms[i]] > collFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if ix.vocabCap > 0 && len(terms) > ix.vocabCap {
		terms = terms[:ix.vocabCap]
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for col, term := range terms {
		vocab[term] = col
		// Smoothed idf, never zero.
		idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	for i := range ix.docs {
		ix.docs[i].vec = vectorizeCounts(perDoc[i], vocab, idf)
	}
	ix.vocab = vocab
	ix.idf = idf
	return nil
}

// scoreTFIDF returns the cosine similarity of the query against every document.
func (ix *Index) scoreTFIDF(query string) []float64 {
	qvec := vectorizeCounts(ngramCounts(tokenize(query)), ix.vocab, ix.idf)
	scores := make([]float64, len(ix.docs))
	if len(qvec) == 0 {
		return scores
	}
	for i, d := range ix.docs {
		scores[i] = sparseDot(qvec, d.vec)
	}
	return scores
}

// ngramCounts counts unigrams and bigrams over a token stream.
func ngramCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens)*2)
	for i, t := range tokens {
		counts[t]++
		if i+1 < len(tokens) {
			counts[t+" "+tokens[i+1]]++
		}
	}
	return counts
}

// vectorizeCounts maps term counts into L2-normalized tf-idf space.
// Terms outside the vocabulary contribute nothing.
func vectorizeCounts(counts map[string]int, vocab map[string]int, idf []float64) map[int]float64 {
	vec := make(map[int]float64)
	var norm float64
	for term, c := range counts {
		col, ok := vocab[term]
		if !ok {
			continue
		}
		w := float64(c) * idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for col, w := range vec {
		vec[col] = w / norm
	}
	return vec
}

// sparseDot computes the dot product of two normalized sparse vectors,
// iterating the smaller one.
func sparseDot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var s float64
	for col, w := range a {
		s += w * b[col]
	}
	return s
}
