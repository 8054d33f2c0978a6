package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/observability"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/config"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg           config.Config
	Analyze       usecase.AnalyzeService
	Recommend     usecase.RecommendService
	DBCheck       func(ctx context.Context) error
	RedisCheck    func(ctx context.Context) error
	AnalyzerCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, analyze usecase.AnalyzeService, recommend usecase.RecommendService, dbCheck, redisCheck, analyzerCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Analyze: analyze, Recommend: recommend, DBCheck: dbCheck, RedisCheck: redisCheck, AnalyzerCheck: analyzerCheck}
}

// allowedImageMIME restricts uploads to the formats the analyzer accepts.
func allowedImageMIME(m string) bool {
	switch strings.ToLower(m) {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

type analyzeJSONRequest struct {
	Image       string `json:"image"`
	ContentType string `json:"content_type"`
}

// AnalyzeHandler accepts an image as multipart/form-data (field "image")
// or as JSON with a base64-encoded image, runs the analysis pipeline and
// returns the canonical record plus recommendations.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		image, err := s.readImage(r, maxBytes)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		mt := mimetype.Detect(image)
		if !allowedImageMIME(mt.String()) {
			writeError(w, r, fmt.Errorf("%w: unsupported image type %s", domain.ErrInvalidArgument, mt.String()), map[string]any{"detected": mt.String()})
			return
		}

		res, err := s.Analyze.Analyze(r.Context(), image, mt.String())
		if err != nil {
			LoggerFrom(r).Error("analyze failed", "error", err)
			writeError(w, r, err, nil)
			return
		}
		observability.ObserveAnalysis(res.Analysis.HealthScore, len(res.Analysis.DetectedConditions), len(res.Recommendations))
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) readImage(r *http.Request, maxBytes int64) ([]byte, error) {
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				return nil, fmt.Errorf("%w: image exceeds %dMB", domain.ErrInvalidArgument, s.Cfg.MaxUploadMB)
			}
			return nil, fmt.Errorf("%w: malformed multipart body", domain.ErrInvalidArgument)
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("%w: missing image field", domain.ErrInvalidArgument)
		}
		defer func() { _ = f.Close() }()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading image: %v", domain.ErrInvalidArgument, err)
		}
		return data, nil
	case strings.Contains(ct, "application/json"):
		var req analyzeJSONRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				return nil, fmt.Errorf("%w: image exceeds %dMB", domain.ErrInvalidArgument, s.Cfg.MaxUploadMB)
			}
			return nil, fmt.Errorf("%w: malformed json body", domain.ErrInvalidArgument)
		}
		if req.Image == "" {
			return nil, fmt.Errorf("%w: missing image field", domain.ErrInvalidArgument)
		}
		data, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: image must be base64-encoded", domain.ErrInvalidArgument)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: content-type must be multipart/form-data or application/json", domain.ErrInvalidArgument)
	}
}

// AnalysisHandler returns a cached canonical analysis record by id.
func (s *Server) AnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		a, err := s.Analyze.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, map[string]any{"analysis_id": id})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analysis": a})
	}
}

// RecommendationsHandler scores the catalog against a cached analysis.
func (s *Server) RecommendationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		recs, err := s.Recommend.ForAnalysis(r.Context(), id)
		if err != nil {
			writeError(w, r, err, map[string]any{"analysis_id": id})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analysis_id": id, "recommendations": recs})
	}
}

// ProductsHandler lists the full product catalog.
func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.Recommend.Products(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	}
}

// ReadyzHandler returns a readiness handler that probes the catalog
// store, the cache, and the analyzer backend.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		probe := func(name string, fn func(context.Context) error) {
			if fn == nil {
				return
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: name, OK: false, Details: err.Error()})
				return
			}
			checks = append(checks, check{Name: name, OK: true})
		}
		probe("db", s.DBCheck)
		probe("redis", s.RedisCheck)
		probe("analyzer", s.AnalyzerCheck)
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
