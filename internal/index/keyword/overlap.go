package keyword

// BoostBonus is added to an overlap score when a matched term also appears in
// a boost field's display value.
const BoostBonus = 0.2

// scoreOverlap implements the fallback scorer: for each document,
// score = matched query terms / total query terms, plus BoostBonus when any
// matched term occurs in the document's boost fields.
func (ix *Index) scoreOverlap(query string) []float64 {
	qterms := tokenize(query)
	scores := make([]float64, len(ix.docs))
	if len(qterms) == 0 {
		return scores
	}

	for i, d := range ix.docs {
		matched := 0
		boosted := false
		for _, t := range qterms {
			if !d.terms[t] {
				continue
			}
			matched++
			if d.boostTerms[t] {
				boosted = true
			}
		}
		if matched == 0 {
			continue
		}
		s := float64(matched) / float64(len(qterms))
		if boosted {
			s += BoostBonus
		}
		scores[i] = s
	}
	return scores
}
