package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/config"
)

// Pinger is the minimal interface for a dependency capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns three readiness checks: catalog store,
// analysis cache, and analyzer backend. A nil pinger marks its
// dependency as not configured, which the probe reports as healthy
// absence rather than failure.
func BuildReadinessChecks(cfg config.Config, db Pinger, cache Pinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	dbCheck := func(ctx context.Context) error {
		if db == nil {
			return nil
		}
		return db.Ping(ctx)
	}
	cacheCheck := func(ctx context.Context) error {
		if cache == nil {
			return nil
		}
		return cache.Ping(ctx)
	}
	analyzerCheck := func(ctx context.Context) error {
		if cfg.AnalyzerBaseURL == "" {
			return nil
		}
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.AnalyzerBaseURL+"/health", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("analyzer status %d", resp.StatusCode)
	}
	return dbCheck, cacheCheck, analyzerCheck
}
