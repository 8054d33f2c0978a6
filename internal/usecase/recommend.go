package usecase

import (
	"fmt"
	"log/slog"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/recommend"
)

// RecommendService produces recommendation sets for analyses that were
// already normalized and cached.
type RecommendService struct {
	Catalog domain.ProductCatalog
	Cache   domain.AnalysisCache
}

// NewRecommendService constructs a RecommendService with the given ports.
func NewRecommendService(cat domain.ProductCatalog, c domain.AnalysisCache) RecommendService {
	return RecommendService{Catalog: cat, Cache: c}
}

// ForAnalysis scores the catalog against a cached analysis and returns
// the diversified selection. An unknown id yields domain.ErrNotFound.
func (s RecommendService) ForAnalysis(ctx domain.Context, id string) ([]domain.ScoredProduct, error) {
	a, err := s.Cache.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("op=recommend: %w", err)
	}
	catalog, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=recommend: catalog: %w", err)
	}
	scored, err := recommend.Score(a, catalog)
	if err != nil {
		return nil, fmt.Errorf("op=recommend: score: %w", err)
	}
	selected := recommend.Select(scored)
	slog.Info("recommendations built",
		slog.String("analysis_id", id),
		slog.Int("catalog_size", len(catalog)),
		slog.Int("selected", len(selected)))
	return selected, nil
}

// Products lists the catalog as-is for the storefront endpoint.
func (s RecommendService) Products(ctx domain.Context) ([]domain.Product, error) {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=products: %w", err)
	}
	return products, nil
}
