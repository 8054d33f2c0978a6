// Package usecase wires the analysis pipeline: run the analyzer,
// normalize its payload into the canonical record, cache it, and score
// the catalog against the detected conditions.
package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/normalize"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/recommend"
)

// AnalyzeResult is the outcome of a full analyze run: the canonical
// record plus the diversified recommendation set.
type AnalyzeResult struct {
	Analysis          domain.Analysis        `json:"analysis"`
	AggregateSeverity domain.Severity        `json:"aggregate_severity"`
	Recommendations   []domain.ScoredProduct `json:"recommendations"`
}

// AnalyzeService runs images through the analyzer and turns whatever
// payload comes back into a canonical record with recommendations.
type AnalyzeService struct {
	Analyzer domain.SkinAnalyzer
	Catalog  domain.ProductCatalog
	Cache    domain.AnalysisCache
}

// NewAnalyzeService constructs an AnalyzeService with the given ports.
func NewAnalyzeService(an domain.SkinAnalyzer, cat domain.ProductCatalog, c domain.AnalysisCache) AnalyzeService {
	return AnalyzeService{Analyzer: an, Catalog: cat, Cache: c}
}

// Analyze runs the full pipeline for one image. Analyzer failures abort
// the request; normalization never does. A cache write failure is
// logged and tolerated so the caller still gets its result.
func (s AnalyzeService) Analyze(ctx domain.Context, image []byte, mime string) (AnalyzeResult, error) {
	if len(image) == 0 {
		return AnalyzeResult{}, fmt.Errorf("%w: empty image", domain.ErrInvalidArgument)
	}
	raw, err := s.Analyzer.Analyze(ctx, image, mime)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("op=analyze: %w", err)
	}

	a := normalize.Normalize(raw)
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().UTC()

	if err := s.Cache.Put(ctx, a); err != nil {
		slog.Warn("analysis cache write failed", slog.String("analysis_id", a.ID), slog.Any("error", err))
	}

	recs, err := s.recommendFor(ctx, a)
	if err != nil {
		return AnalyzeResult{}, err
	}
	slog.Info("analysis completed",
		slog.String("analysis_id", a.ID),
		slog.Int("health_score", a.HealthScore),
		slog.Int("conditions", len(a.DetectedConditions)),
		slog.Int("recommendations", len(recs)))
	return AnalyzeResult{
		Analysis:          a,
		AggregateSeverity: normalize.AggregateSeverity(a),
		Recommendations:   recs,
	}, nil
}

// Get returns a previously cached canonical record.
func (s AnalyzeService) Get(ctx domain.Context, id string) (domain.Analysis, error) {
	a, err := s.Cache.Get(ctx, id)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("op=analysis.get: %w", err)
	}
	return a, nil
}

func (s AnalyzeService) recommendFor(ctx domain.Context, a domain.Analysis) ([]domain.ScoredProduct, error) {
	catalog, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=analyze: catalog: %w", err)
	}
	scored, err := recommend.Score(a, catalog)
	if err != nil {
		return nil, fmt.Errorf("op=analyze: score: %w", err)
	}
	return recommend.Select(scored), nil
}
