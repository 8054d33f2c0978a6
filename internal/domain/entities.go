// Package domain holds the canonical entities, error taxonomy, and ports
// shared by every layer of the skin analysis service.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// Category enumerates the product categories the recommendation rules
// know about. Any other value in catalog data is a data-quality bug and
// must fail loudly rather than score as zero.
type Category string

const (
	CategoryCleanser    Category = "cleanser"
	CategoryTreatment   Category = "treatment"
	CategorySerum       Category = "serum"
	CategoryMoisturizer Category = "moisturizer"
	CategorySunscreen   Category = "sunscreen"
)

// Valid reports whether c is one of the known catalog categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCleanser, CategoryTreatment, CategorySerum, CategoryMoisturizer, CategorySunscreen:
		return true
	}
	return false
}

// Condition is a named skin concern with a 0-100 confidence and a severity.
type Condition struct {
	Name        string   `json:"name"`
	Confidence  int      `json:"confidence"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description,omitempty"`
}

// Analysis is the canonical analysis record. Every upstream payload shape
// is normalized into this form before anything downstream looks at it.
// Invariants: OverallConfidence and HealthScore are integers in [0,100];
// DetectedConditions is ordered by descending confidence and contains no
// duplicate names; Summary is never empty.
type Analysis struct {
	ID                 string              `json:"id,omitempty"`
	OverallConfidence  int                 `json:"overall_confidence"`
	HealthScore        int                 `json:"health_score"`
	PrimaryCondition   *Condition          `json:"primary_condition,omitempty"`
	DetectedConditions []Condition         `json:"detected_conditions"`
	SeverityLevels     map[string]Severity `json:"severity_levels,omitempty"`
	Summary            string              `json:"summary"`
	CreatedAt          time.Time           `json:"created_at,omitempty"`
}

// Product is a read-only catalog record supplied by catalog storage.
type Product struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Description string   `json:"description" yaml:"description"`
	Price       float64  `json:"price" yaml:"price" validate:"gte=0"`
	Category    Category `json:"category" yaml:"category" validate:"required,oneof=cleanser treatment serum moisturizer sunscreen"`
	Image       string   `json:"image,omitempty" yaml:"image"`
}

// ScoredProduct is a catalog product plus its additive match score and a
// human-readable justification. Same inputs produce the same score, the
// same reason string, and the same order among ties (catalog order).
type ScoredProduct struct {
	Product
	Score       int    `json:"score"`
	MatchReason string `json:"match_reason"`
}

// Ports

// SkinAnalyzer submits a face photo to the external analysis backend and
// returns whatever JSON it produced, untouched. Interpretation of the
// payload belongs to the normalizer, not the transport.
type SkinAnalyzer interface {
	Analyze(ctx Context, image []byte, mime string) (json.RawMessage, error)
}

// ProductCatalog supplies the ordered, read-only product list.
type ProductCatalog interface {
	List(ctx Context) ([]Product, error)
}

// AnalysisCache holds canonical records for the duration of a session so
// result and recommendation screens can replay them without re-analyzing.
type AnalysisCache interface {
	Put(ctx Context, a Analysis) error
	Get(ctx Context, id string) (Analysis, error)
}

// Context is an alias so domain signatures stay decoupled from net/http
// plumbing; adapters pass context.Context straight through.
type Context = context.Context
