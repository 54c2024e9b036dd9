package hrsearch

import "go.uber.org/zap"

// Engine tuning defaults.
const (
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3
	DefaultMinSimilarity  = 0.1
	DefaultVocabularyCap  = 5000
)

type engineConfig struct {
	embedder       Embedder
	semanticWeight float64
	keywordWeight  float64
	minSimilarity  float64
	vocabularyCap  int
	synonyms       map[string][]string
	logger         *zap.Logger
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		semanticWeight: DefaultSemanticWeight,
		keywordWeight:  DefaultKeywordWeight,
		minSimilarity:  DefaultMinSimilarity,
		vocabularyCap:  DefaultVocabularyCap,
		logger:         zap.NewNop(),
	}
}

// Option configures the Engine.
type Option func(*engineConfig)

// WithEmbedder enables semantic search with the given embedding provider.
// Without it the engine runs keyword-only.
func WithEmbedder(e Embedder) Option {
	return func(c *engineConfig) { c.embedder = e }
}

// WithWeights overrides the fusion weights for semantic and keyword scores.
func WithWeights(semantic, keyword float64) Option {
	return func(c *engineConfig) {
		if semantic > 0 {
			c.semanticWeight = semantic
		}
		if keyword > 0 {
			c.keywordWeight = keyword
		}
	}
}

// WithMinSimilarity overrides the per-method similarity threshold.
func WithMinSimilarity(min float64) Option {
	return func(c *engineConfig) {
		if min > 0 {
			c.minSimilarity = min
		}
	}
}

// WithVocabularyCap overrides the keyword index vocabulary size limit.
func WithVocabularyCap(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.vocabularyCap = n
		}
	}
}

// WithSynonyms replaces the built-in synonym table for query expansion.
func WithSynonyms(synonyms map[string][]string) Option {
	return func(c *engineConfig) { c.synonyms = synonyms }
}

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
