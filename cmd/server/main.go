// Command server starts the skin analysis HTTP server.
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

	analyzercli "github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/analyzer"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/cache"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/catalog"
	httpserver "github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/httpserver"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/observability"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/repo/postgres"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/app"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/config"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so /metrics
	// exposes HTTP, analyzer, and analysis instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Product catalog: postgres when a DB URL is configured, otherwise
	// the static YAML file.
	var (
		products domain.ProductCatalog
		dbPinger app.Pinger
	)
	if cfg.DBURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		products = postgres.NewProductRepo(pool)
		dbPinger = pool
		slog.Info("product catalog backed by postgres")
	} else {
		static, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			slog.Error("catalog load failed", slog.String("path", cfg.CatalogPath), slog.Any("error", err))
			os.Exit(1)
		}
		products = static
		slog.Info("product catalog loaded from file", slog.String("path", cfg.CatalogPath))
	}

	// Analysis cache: redis when configured, else in-process.
	var (
		analyses    domain.AnalysisCache
		cachePinger app.Pinger
	)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(cfg.RedisURL, cfg.AnalysisTTL)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = rdb.Close() }()
		analyses = rdb
		cachePinger = rdb
		slog.Info("analysis cache backed by redis")
	} else {
		analyses = cache.NewMemory(cfg.AnalysisTTL)
		slog.Info("analysis cache is in-process", slog.Duration("ttl", cfg.AnalysisTTL))
	}

	// Analyzer backend: the real client when a base URL is configured,
	// otherwise the deterministic stub for local development.
	var skin domain.SkinAnalyzer
	if cfg.AnalyzerBaseURL != "" {
		skin = analyzercli.New(cfg)
		slog.Info("analyzer client configured", slog.String("base_url", cfg.AnalyzerBaseURL))
	} else {
		skin = analyzercli.NewStub()
		slog.Warn("no analyzer configured, using stub responses")
	}

	analyzeSvc := usecase.NewAnalyzeService(skin, products, analyses)
	recommendSvc := usecase.NewRecommendService(products, analyses)

	dbCheck, cacheCheck, analyzerCheck := app.BuildReadinessChecks(cfg, dbPinger, cachePinger)
	srv := httpserver.NewServer(cfg, analyzeSvc, recommendSvc, dbCheck, cacheCheck, analyzerCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
