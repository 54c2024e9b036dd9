package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/config"
	"github.com/nusahr/hrsearch/internal/db"
	dbRedis "github.com/nusahr/hrsearch/internal/db/redis"
	"github.com/nusahr/hrsearch/internal/domain"
	"github.com/nusahr/hrsearch/internal/extract"
	"github.com/nusahr/hrsearch/internal/index"
	logpkg "github.com/nusahr/hrsearch/internal/logger"
	"github.com/nusahr/hrsearch/internal/metrics"
	"github.com/nusahr/hrsearch/internal/query"
	"github.com/nusahr/hrsearch/internal/repository/embcache"
	"github.com/nusahr/hrsearch/internal/repository/hrdata"
	"github.com/nusahr/hrsearch/internal/repository/searchcache"
	chiTransport "github.com/nusahr/hrsearch/internal/transport/chi"
	openaiEmb "github.com/nusahr/hrsearch/internal/transport/openai"
	healthuc "github.com/nusahr/hrsearch/internal/usecase/health"
	indexeruc "github.com/nusahr/hrsearch/internal/usecase/indexer"
	searchuc "github.com/nusahr/hrsearch/internal/usecase/search"
	"github.com/nusahr/hrsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting hrsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Data.Dir),
		zap.Strings("cache_addrs", cfg.Database.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	// Cache backend is best-effort: an unreachable store degrades to
	// uncached searches instead of aborting startup.
	store := connectStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	// Build embedder chain — composition root
	docEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.DocumentInstruction, cfg.Storage.KeyPrefix, store, logger)
	queryEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, cfg.Storage.KeyPrefix, store, logger)
	if docEmbedder == nil {
		logger.Warn("Embedding provider not configured, semantic search disabled")
	} else {
		logger.Info("Embedders created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	}

	registry, err := hrdata.NewRegistry(
		cfg.Data.Dir, cfg.Search.EntityWeights, cfg.Search.MaxDocumentsPerEntity, logger,
	)
	if err != nil {
		logger.Fatal("Failed to build entity registry", zap.Error(err))
	}

	manager := index.NewManager()

	// Response cache — nil interface when the store is absent.
	var respCache searchuc.ResponseCache
	var versions indexeruc.VersionSource
	if store != nil {
		sc := searchcache.New(
			store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Search.CacheTTLMin)*time.Minute, logger,
		)
		respCache = sc
		versions = sc
	}

	var batchEmbedder indexeruc.BatchEmbedder
	if docEmbedder != nil {
		batchEmbedder = asBatchEmbedder(docEmbedder)
	}

	indexerSvc := indexeruc.New(
		registry, extract.New(logger), batchEmbedder, manager, versions,
		indexeruc.Options{
			MinSimilarity: cfg.Search.MinSimilarity,
			VocabularyCap: cfg.Search.VocabularyCap,
		},
		logger,
	)

	var qEmbedder searchuc.Embedder
	if queryEmbedder != nil {
		qEmbedder = queryEmbedder
	}
	searchSvc := searchuc.New(manager, qEmbedder, query.New(nil), respCache).
		WithWeights(searchuc.Weights{
			Semantic: cfg.Search.SemanticWeight,
			Keyword:  cfg.Search.KeywordWeight,
		})

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	var embChecker healthuc.EmbeddingChecker
	if docEmbedder != nil {
		embChecker = newEmbeddingHealthChecker(docEmbedder)
	}
	healthSvc := healthuc.New(cachePinger, embChecker, manager)

	// Initial index build. Runs in the background so the server accepts
	// traffic immediately; searches return empty until the first publish.
	go func() {
		summary, err := indexerSvc.Rebuild(context.Background())
		if err != nil {
			logger.Error("Initial index build failed", zap.Error(err))
			return
		}
		logger.Info("Initial index built",
			zap.Int64("index_version", summary.IndexVersion),
			zap.Int("total_documents", summary.TotalDocuments),
		)
	}()

	server := chiTransport.NewServer(searchSvc, indexerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Use(chiMiddleware.Timeout(time.Duration(cfg.HTTP.RequestDeadline) * time.Second))
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// connectStore connects to the cache backend, or returns nil when it is not
// configured or unreachable.
func connectStore(cfg config.Config, logger *zap.Logger) db.Store {
	if len(cfg.Database.Addrs) == 0 {
		logger.Info("Cache backend not configured, running uncached")
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Warn("Failed to create cache store, running uncached", zap.Error(err))
		return nil
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Cache backend not ready, running uncached", zap.Error(err))
		store.Close()
		return nil
	}

	logger.Info("Connected to cache backend")
	return store
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// Returns nil when no provider is configured (keyword-only mode).
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	instruction string,
	keyPrefix string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	if embCfg.APIKey == "" && embCfg.BaseURL == "" {
		return nil
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Provider:   embCfg.Provider,
		Logger:     logger,
	})

	// Cached
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, keyPrefix, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}

// batchAdapter lifts an Embedder without native batch support to BatchEmbedder.
type batchAdapter struct {
	inner domain.Embedder
}

func (a batchAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchFallback(ctx, a.inner, texts)
}

func asBatchEmbedder(e domain.Embedder) indexeruc.BatchEmbedder {
	if be, ok := e.(domain.BatchEmbedder); ok {
		return be
	}
	return batchAdapter{inner: e}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
