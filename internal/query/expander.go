// Package query expands raw queries with domain synonyms and stemmed
// variants to improve retrieval recall.
package query

import (
	"strings"

	"github.com/blevesearch/go-porterstemmer"
)

// Expander rewrites queries using a fixed synonym table and Porter stemming.
// Pure and deterministic: no I/O, same table in means same expansion out.
type Expander struct {
	synonyms map[string][]string
}

// New creates an expander. A nil table uses the built-in HR domain synonyms.
func New(synonyms map[string][]string) *Expander {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Expander{synonyms: synonyms}
}

// Synonyms returns the expansions for a domain term, nil when absent.
func (e *Expander) Synonyms(term string) []string {
	return e.synonyms[term]
}

// Expand returns the query extended with synonym and stemmed terms, joined by
// spaces. The original query terms always lead the result, so the raw query is
// contained verbatim even when no rule fires.
func (e *Expander) Expand(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	seen := make(map[string]bool, len(words)*2)
	expanded := make([]string, 0, len(words)*2)

	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			expanded = append(expanded, term)
		}
	}

	for _, w := range words {
		add(w)
	}
	for _, w := range words {
		for _, syn := range e.synonyms[w] {
			add(syn)
		}
	}
	for _, w := range words {
		add(porterstemmer.StemString(w))
	}

	return strings.Join(expanded, " ")
}

// MatchedTerms returns the query words present in the synonym table, in query
// order. The suggestion generator builds follow-ups from these.
func (e *Expander) MatchedTerms(raw string) []string {
	var matched []string
	for _, w := range strings.Fields(strings.ToLower(raw)) {
		if _, ok := e.synonyms[w]; ok {
			matched = append(matched, w)
		}
	}
	return matched
}

// DefaultSynonyms is the built-in HR domain synonym table. The source corpus
// is a bilingual (English/Indonesian) HR system, so both vocabularies appear.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"manager":     {"supervisor", "lead", "head", "director"},
		"supervisor":  {"manager", "lead", "atasan"},
		"employee":    {"staff", "karyawan", "personnel", "worker"},
		"karyawan":    {"employee", "staff", "pegawai"},
		"salary":      {"gaji", "wage", "compensation", "pay"},
		"gaji":        {"salary", "upah", "kompensasi"},
		"leave":       {"cuti", "vacation", "absence", "time-off"},
		"cuti":        {"leave", "izin", "libur"},
		"training":    {"pelatihan", "development", "course", "learning"},
		"pelatihan":   {"training", "kursus", "pengembangan"},
		"position":    {"jabatan", "role", "job", "title"},
		"jabatan":     {"position", "posisi", "role"},
		"department":  {"departemen", "division", "unit", "team"},
		"recruitment": {"rekrutmen", "hiring", "vacancy"},
		"performance": {"kinerja", "appraisal", "evaluation", "review"},
		"policy":      {"kebijakan", "regulation", "rule", "procedure"},
		"budget":      {"anggaran", "allocation", "spending"},
		"attendance":  {"absensi", "kehadiran", "presence"},
	}
}
