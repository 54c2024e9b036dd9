package searchtype

import "testing"

func TestIsValid(t *testing.T) {
	if !Semantic.IsValid() || !Keyword.IsValid() {
		t.Error("built-in methods must be valid")
	}
	if Type("fuzzy").IsValid() {
		t.Error("unknown method must be invalid")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   []Type
		want []Type
	}{
		{"empty defaults to both", nil, []Type{Keyword, Semantic}},
		{"deduplicates", []Type{Keyword, Keyword, Semantic}, []Type{Keyword, Semantic}},
		{"sorts", []Type{Semantic, Keyword}, []Type{Keyword, Semantic}},
		{"single", []Type{Semantic}, []Type{Semantic}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("Normalize(%v)[%d] = %v, want %v", tc.in, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestContains(t *testing.T) {
	set := []Type{Keyword}
	if !Contains(set, Keyword) {
		t.Error("Contains must find present method")
	}
	if Contains(set, Semantic) {
		t.Error("Contains must not find absent method")
	}
}
