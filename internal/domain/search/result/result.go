package result

import (
	"github.com/nusahr/hrsearch/internal/domain/document"
	"github.com/nusahr/hrsearch/internal/domain/search/searchtype"
)

// Candidate is a single hit from one retrieval method, before fusion.
type Candidate struct {
	doc        document.Document
	similarity float64
	searchType searchtype.Type
	rank       int
}

// NewCandidate creates a per-method search hit with its provisional 1-based rank.
func NewCandidate(doc document.Document, similarity float64, t searchtype.Type, rank int) Candidate {
	return Candidate{doc: doc, similarity: similarity, searchType: t, rank: rank}
}

// Document returns the matched document.
func (c *Candidate) Document() document.Document { return c.doc }

// Similarity returns the raw per-method similarity score.
func (c *Candidate) Similarity() float64 { return c.similarity }

// SearchType returns the method that produced this hit.
func (c *Candidate) SearchType() searchtype.Type { return c.searchType }

// Rank returns the provisional 1-based rank within the method's result list.
func (c *Candidate) Rank() int { return c.rank }

// Ranked is a fused, filtered, final-ranked search result.
type Ranked struct {
	doc           document.Document
	combinedScore float64
	searchMethods []searchtype.Type
	finalRank     int
}

// NewRanked creates a final result.
func NewRanked(
	doc document.Document, combinedScore float64,
	methods []searchtype.Type, finalRank int,
) Ranked {
	return Ranked{
		doc:           doc,
		combinedScore: combinedScore,
		searchMethods: methods,
		finalRank:     finalRank,
	}
}

// Document returns the matched document.
func (r *Ranked) Document() document.Document { return r.doc }

// CombinedScore returns the weighted fusion score across methods.
func (r *Ranked) CombinedScore() float64 { return r.combinedScore }

// SearchMethods returns the methods that contributed to this result.
func (r *Ranked) SearchMethods() []searchtype.Type { return r.searchMethods }

// FinalRank returns the 1-based position in the fused list.
func (r *Ranked) FinalRank() int { return r.finalRank }

// WithFinalRank returns a copy with the final rank assigned.
func (r Ranked) WithFinalRank(rank int) Ranked {
	r.finalRank = rank
	return r
}
