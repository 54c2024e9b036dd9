package searchtype

import "sort"

// Type is a retrieval method.
type Type string

// Retrieval method constants.
const (
	// Semantic retrieves by embedding similarity.
	Semantic Type = "semantic"
	// Keyword retrieves by lexical term statistics.
	Keyword Type = "keyword"
)

// IsValid checks if the type is a supported retrieval method.
func (t Type) IsValid() bool {
	return t == Semantic || t == Keyword
}

// Default returns the default method set: both.
func Default() []Type {
	return []Type{Semantic, Keyword}
}

// Normalize deduplicates and sorts a method set, returning Default for an
// empty input. The sorted order makes cache fingerprints stable.
func Normalize(types []Type) []Type {
	if len(types) == 0 {
		types = Default()
	}
	seen := make(map[Type]bool, len(types))
	out := make([]Type, 0, len(types))
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contains reports whether the set includes the given method.
func Contains(types []Type, t Type) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
