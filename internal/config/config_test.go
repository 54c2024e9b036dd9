package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MinSimilarityAboveOne(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Search: SearchConfig{MinSimilarity: 1.5},
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_similarity >= 1")
	}
}

func TestValidate_NonPositiveEntityWeight(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Search: SearchConfig{
			EntityWeights: map[string]float64{"employee": -1},
		},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative entity weight")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if cfg.Search.SemanticWeight != 0.7 {
		t.Errorf("semantic_weight default: got %g, want 0.7", cfg.Search.SemanticWeight)
	}
	if cfg.Search.KeywordWeight != 0.3 {
		t.Errorf("keyword_weight default: got %g, want 0.3", cfg.Search.KeywordWeight)
	}
	if cfg.Search.MinSimilarity != 0.1 {
		t.Errorf("min_similarity default: got %g, want 0.1", cfg.Search.MinSimilarity)
	}
	if cfg.Search.CacheTTLMin != 30 {
		t.Errorf("cache_ttl_min default: got %d, want 30", cfg.Search.CacheTTLMin)
	}
	if cfg.Storage.KeyPrefix != "hrsearch:" {
		t.Errorf("key_prefix default: got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.HTTP.RequestDeadline != 5 {
		t.Errorf("request_deadline default: got %d, want 5", cfg.HTTP.RequestDeadline)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HRSEARCH_TEST_KEY", "secret")

	t.Run("set variable", func(t *testing.T) {
		out := expandEnvVars([]byte("api_key: ${HRSEARCH_TEST_KEY}"))
		if string(out) != "api_key: secret" {
			t.Errorf("got %q", out)
		}
	})

	t.Run("unset with default", func(t *testing.T) {
		out := expandEnvVars([]byte("addr: ${HRSEARCH_UNSET_VAR:-localhost:6379}"))
		if string(out) != "addr: localhost:6379" {
			t.Errorf("got %q", out)
		}
	})

	t.Run("unset without default", func(t *testing.T) {
		out := expandEnvVars([]byte("addr: ${HRSEARCH_UNSET_VAR}"))
		if string(out) != "addr: " {
			t.Errorf("got %q", out)
		}
	})
}
