package search

import (
	"sort"
	"strings"

	"github.com/nusahr/hrsearch/internal/domain/search/result"
)

// Suggestion generation limits.
const (
	MaxSuggestions      = 5
	synonymsPerTerm     = 2
	topResultsForTerms  = 10
	frequentTermsToTake = 3
	minSuggestedTermLen = 4
)

// Suggestions proposes up to MaxSuggestions follow-up queries: synonym
// expansions of domain terms in the query first, then the query extended with
// the most frequent novel terms from the top results.
func Suggestions(rawQuery string, expander QueryExpander, ranked []result.Ranked) []string {
	suggestions := make([]string, 0, MaxSuggestions)
	seen := make(map[string]bool)

	add := func(s string) bool {
		if seen[s] || s == rawQuery {
			return len(suggestions) < MaxSuggestions
		}
		seen[s] = true
		suggestions = append(suggestions, s)
		return len(suggestions) < MaxSuggestions
	}

	for _, term := range expander.MatchedTerms(rawQuery) {
		syns := expander.Synonyms(term)
		if len(syns) > synonymsPerTerm {
			syns = syns[:synonymsPerTerm]
		}
		for _, syn := range syns {
			if !add(rawQuery + " " + syn) {
				return suggestions
			}
		}
	}

	for _, term := range frequentResultTerms(rawQuery, ranked) {
		if !add(rawQuery + " " + term) {
			return suggestions
		}
	}

	return suggestions
}

// frequentResultTerms ranks terms from the top results' searchable text by
// frequency, excluding short terms and terms already in the query.
// Alphabetical tie-break keeps the output deterministic.
func frequentResultTerms(rawQuery string, ranked []result.Ranked) []string {
	queryTerms := queryTermSet(rawQuery)

	top := ranked
	if len(top) > topResultsForTerms {
		top = top[:topResultsForTerms]
	}

	freq := make(map[string]int)
	for i := range top {
		doc := top[i].Document()
		for _, w := range strings.Fields(strings.ToLower(doc.SearchableText())) {
			w = strings.Trim(w, ".,;:!?()[]\"'")
			if len(w) < minSuggestedTermLen || queryTerms[w] {
				continue
			}
			freq[w]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > frequentTermsToTake {
		terms = terms[:frequentTermsToTake]
	}
	return terms
}
