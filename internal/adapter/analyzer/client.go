// Package analyzer is the HTTP adapter for the external skin analysis
// backend. The backend is a black box: the client ships the photo and
// hands back whatever JSON arrives, untouched, because interpreting the
// (historically unstable) payload shape is the normalizer's job.
package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/observability"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/config"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

// maxResponseBytes caps how much of an analysis response is read; real
// payloads are a few KB.
const maxResponseBytes = 1 << 20

// Client calls the remote analysis backend with retries.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	cfg     config.Config
}

// New constructs a Client from configuration. The underlying transport
// is traced so analyzer calls show up in distributed traces.
func New(cfg config.Config) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "analyzer " + r.Method
		}),
	)
	return &Client{
		baseURL: cfg.AnalyzerBaseURL,
		apiKey:  cfg.AnalyzerAPIKey,
		httpc:   &http.Client{Timeout: cfg.AnalyzerTimeout, Transport: transport},
		cfg:     cfg,
	}
}

type analyzeRequest struct {
	Image       string `json:"image"`
	ContentType string `json:"content_type"`
}

// Analyze submits the photo and returns the backend's raw JSON payload.
// Transient failures (5xx, network errors) are retried with exponential
// backoff; 4xx responses are permanent.
func (c *Client) Analyze(ctx domain.Context, image []byte, mime string) (json.RawMessage, error) {
	body, err := json.Marshal(analyzeRequest{
		Image:       base64.StdEncoding.EncodeToString(image),
		ContentType: mime,
	})
	if err != nil {
		return nil, fmt.Errorf("op=analyzer.Analyze: encode request: %w", err)
	}

	start := time.Now()
	var raw json.RawMessage
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/analyze", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			// Retryable: network flake or timeout.
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			raw = data
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			return backoff.Permanent(fmt.Errorf("%w: analyzer returned 429", domain.ErrUpstreamRateLimit))
		case resp.StatusCode >= 500:
			return fmt.Errorf("analyzer status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%w: analyzer status %d", domain.ErrInvalidArgument, resp.StatusCode))
		}
	}

	if err := backoff.Retry(op, backoff.WithContext(c.newBackoff(), ctx)); err != nil {
		observability.AnalyzerRequestsTotal.WithLabelValues("error").Inc()
		slog.Error("analyzer request failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		if errors.Is(err, domain.ErrUpstreamRateLimit) || errors.Is(err, domain.ErrInvalidArgument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}

	observability.AnalyzerRequestsTotal.WithLabelValues("ok").Inc()
	observability.AnalyzerRequestDuration.Observe(time.Since(start).Seconds())
	return raw, nil
}

func (c *Client) newBackoff() *backoff.ExponentialBackOff {
	maxElapsed, initial, maxInterval, multiplier := c.cfg.GetAnalyzerBackoffConfig()
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}
