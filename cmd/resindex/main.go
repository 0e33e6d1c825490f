package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/config"
	"github.com/kailas-cloud/resindex/internal/db/postgres"
	"github.com/kailas-cloud/resindex/internal/db/postgrest"
	dbRedis "github.com/kailas-cloud/resindex/internal/db/redis"
	"github.com/kailas-cloud/resindex/internal/domain"
	"github.com/kailas-cloud/resindex/internal/domain/match"
	logpkg "github.com/kailas-cloud/resindex/internal/logger"
	"github.com/kailas-cloud/resindex/internal/metrics"
	"github.com/kailas-cloud/resindex/internal/repository/catalog"
	"github.com/kailas-cloud/resindex/internal/repository/embcache"
	"github.com/kailas-cloud/resindex/internal/transport/console"
	openaiEmb "github.com/kailas-cloud/resindex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/resindex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/resindex/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/resindex/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/resindex/internal/usecase/search"
	"github.com/kailas-cloud/resindex/internal/version"
)

const providerName = "openai"

// catalogStore is everything the CLI needs from a catalog backend.
type catalogStore interface {
	indexinguc.ResourceLister
	indexinguc.EmbeddingChecker
	indexinguc.EmbeddingWriter
	searchuc.Matcher
}

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "resindex:", err)
		os.Exit(1)
	}
}

// run wires the adapters and executes one mode: full indexing, or a single
// query when the first argument is "test".
func run(args []string) error {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	queryMode := len(args) > 0 && args[0] == "test"

	logger.Info("Starting resindex",
		zap.String("version", version.String()),
		zap.Bool("query_mode", queryMode),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("cache", cfg.Cache.Enabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIndexingMetrics()

	store, storePing, closeStore, err := buildCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create catalog store", zap.Error(err))
		return fmt.Errorf("catalog store: %w", err)
	}
	defer closeStore()

	cache := buildCache(ctx, cfg, logger)
	if cache != nil {
		defer cache.Close()
	}

	embedder := buildEmbedder(cfg, cache, logger)
	logger.Info("Embedder created",
		zap.String("provider", providerName),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	if cfg.Metrics.Port > 0 {
		var cachePing healthuc.Pinger
		if cache != nil {
			cachePing = cache
		}
		healthSvc := healthuc.New(storePing, cachePing, embedder)
		srv := metrics.Serve(cfg.Metrics.Port, metrics.NewRouter(healthFunc(healthSvc)), logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Error during metrics server shutdown", zap.Error(err))
			}
		}()
	}

	out := console.New(os.Stdout)

	if queryMode {
		svc := searchuc.New(store, embedder, logger).
			WithCategoryInference(cfg.Query.InferCategory)
		if err := runQuery(ctx, svc, out, cfg.Query, args[1:]); err != nil {
			logger.Error("Query failed", zap.Error(err))
			return err
		}
		return nil
	}

	svc := indexinguc.New(store, store, store, embedder, logger).
		WithThrottle(cfg.Indexer.Throttle()).
		WithDimensions(cfg.Embedding.Dimensions).
		WithReporter(out)
	if _, err := svc.RunFullIndex(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Indexing interrupted", zap.Error(err))
			return nil
		}
		logger.Error("Indexing failed", zap.Error(err))
		return err
	}
	return nil
}

// runQuery embeds the query words (or the configured default) and prints matches.
// A rejected or unembeddable query is reported, not treated as a failure.
func runQuery(
	ctx context.Context, svc *searchuc.Service, out *console.Console,
	qcfg config.QueryConfig, words []string,
) error {
	text := strings.Join(words, " ")
	if text == "" {
		text = qcfg.DefaultText
	}

	req, err := match.NewRequest(text, qcfg.MinSimilarity(), qcfg.Limit, "")
	if err != nil {
		out.QueryRejected(err)
		return nil
	}

	out.Searching(text)
	results, err := svc.Query(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrQueryNotEmbedded) {
			out.QueryNotEmbedded()
			return nil
		}
		return err
	}

	out.Matches(results)
	return nil
}

// buildCatalog connects the configured backend and returns it with its pinger and closer.
func buildCatalog(
	ctx context.Context, cfg config.Config, logger *zap.Logger,
) (catalogStore, pinger, func(), error) {
	tables := catalog.Tables{
		Resources:     cfg.Store.ResourcesTable,
		Embeddings:    cfg.Store.EmbeddingsTable,
		MatchFunction: cfg.Store.MatchFunction,
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(connectCtx, cfg.Store.DSN, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return catalog.NewSQL(pool, tables, logger), pool, pool.Close, nil

	case config.DriverSupabase:
		client, err := postgrest.New(postgrest.Config{
			URL:     cfg.Store.URL,
			Key:     cfg.Store.Key,
			Timeout: cfg.Store.Timeout(),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return catalog.NewREST(client, tables, logger), client, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// buildCache connects the embedding cache. A cache that is not configured or
// not reachable yields nil and indexing proceeds uncached.
func buildCache(ctx context.Context, cfg config.Config, logger *zap.Logger) *dbRedis.Store {
	if !cfg.Cache.Enabled() {
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Warn("Embedding cache disabled", zap.Error(err))
		return nil
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Embedding cache not ready, continuing without it", zap.Error(err))
		store.Close()
		return nil
	}
	logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	return store
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented
func buildEmbedder(cfg config.Config, cache *dbRedis.Store, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   providerName,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cache != nil {
		embedder = embcache.New(
			base, cache, cfg.Embedding.Model, cfg.Cache.TTL(),
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, providerName, cfg.Embedding.Model, logger)
}

// healthFunc adapts the health service to the metrics router.
func healthFunc(svc *healthuc.Service) metrics.HealthFunc {
	return func(ctx context.Context) metrics.HealthReport {
		report := svc.Check(ctx)
		checks := make(map[string]string, len(report.Checks))
		for k, v := range report.Checks {
			checks[k] = string(v)
		}
		return metrics.HealthReport{Status: string(report.Status), Checks: checks}
	}
}
