package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/researchconnect/profscout/internal/api"
	"github.com/researchconnect/profscout/internal/completion"
	"github.com/researchconnect/profscout/internal/config"
	"github.com/researchconnect/profscout/internal/corpus"
	"github.com/researchconnect/profscout/internal/history"
	"github.com/researchconnect/profscout/internal/query"
	"github.com/researchconnect/profscout/internal/search"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "profscout",
	Short: "ProfScout - Professor Search Service",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(historyCmd)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("configuration loaded", "level", cfg.Log.Level)

	// Corpus is loaded once and treated as a value for the process
	// lifetime.
	source, err := corpus.NewSource(cfg.Corpus)
	if err != nil {
		return err
	}
	professors, err := corpus.NewLoader(source).Load(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	slog.Info("corpus loaded", "records", len(professors))

	// Completion client; a missing key keeps the deterministic tier
	// serving in dev mode.
	var client completion.Client
	groq, err := completion.NewGroq(cfg.Completion)
	switch {
	case err == nil:
		client = groq
		slog.Info("completion client initialized", "model", groq.ModelName())
	case errors.Is(err, completion.ErrNotConfigured) && cfg.DevMode:
		slog.Warn("completion service not configured, semantic tier disabled")
	default:
		return err
	}

	historyStore, err := newHistoryStore(cfg.History)
	if err != nil {
		return err
	}

	retriever := newRetriever(client, cfg)
	enricher := search.NewEnricher(client, cfg.Completion.SuggestModel)
	validator := query.NewValidator(query.Limits{
		MinConfidence:   cfg.Validator.MinConfidence,
		MinWordValidity: cfg.Validator.MinWordValidity,
		MinRelevance:    cfg.Validator.MinRelevance,
		CleanWordBypass: cfg.Validator.CleanWordBypass,
	})

	limiter := api.NewSlidingWindowLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.Window))

	handler := api.NewHandler(professors, validator, retriever, enricher, historyStore,
		cfg.Completion.MatchModel, Version, cfg.DevMode)
	router := api.NewRouter(handler, limiter)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error on graceful Shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := historyStore.Close(); err != nil {
		slog.Error("history store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newRetriever composes the two-tier retrieval strategy. Without a
// completion client only the scored tier runs.
func newRetriever(client completion.Client, cfg *config.Config) search.Retriever {
	scored := search.NewScoredRetriever(cfg.Search.FallbackCap)
	if client == nil {
		return search.NewFallbackRetriever(nil, scored)
	}
	semantic := search.NewSemanticRetriever(client, cfg.Completion.MatchModel,
		cfg.Search.CorpusSlice, cfg.Search.SemanticCap)
	return search.NewFallbackRetriever(semantic, scored)
}

func newHistoryStore(cfg config.HistoryConfig) (history.Store, error) {
	if !cfg.Enabled {
		return history.NopStore{}, nil
	}
	store, err := history.NewSQLiteStore(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	slog.Info("history store initialized", "path", cfg.Path)
	return store, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
