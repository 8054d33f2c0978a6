package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/config"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/usecase"
)

// jpegBytes is a minimal JPEG signature payload for MIME sniffing.
var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x00}, 32)...)

type stubAnalyzer struct {
	payload json.RawMessage
	err     error
}

func (s stubAnalyzer) Analyze(_ domain.Context, _ []byte, _ string) (json.RawMessage, error) {
	return s.payload, s.err
}

type stubCatalog struct{ products []domain.Product }

func (s stubCatalog) List(_ domain.Context) ([]domain.Product, error) { return s.products, nil }

type stubCache struct{ m map[string]domain.Analysis }

func (s *stubCache) Put(_ domain.Context, a domain.Analysis) error {
	s.m[a.ID] = a
	return nil
}

func (s *stubCache) Get(_ domain.Context, id string) (domain.Analysis, error) {
	a, ok := s.m[id]
	if !ok {
		return domain.Analysis{}, domain.ErrNotFound
	}
	return a, nil
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "cl-01", Name: "Gentle Foam Cleanser", Description: "gentle cleansing", Price: 18, Category: domain.CategoryCleanser},
		{ID: "su-01", Name: "SPF 50 Sunscreen", Description: "broad spectrum", Price: 22, Category: domain.CategorySunscreen},
	}
}

func newTestServer(t *testing.T, an domain.SkinAnalyzer, cache *stubCache) *Server {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	cfg, err := config.Load()
	require.NoError(t, err)
	cat := stubCatalog{products: testProducts()}
	if cache == nil {
		cache = &stubCache{m: map[string]domain.Analysis{}}
	}
	return NewServer(cfg,
		usecase.NewAnalyzeService(an, cat, cache),
		usecase.NewRecommendService(cat, cache),
		nil, nil, nil)
}

func multipartImage(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "face.jpg")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeHandler_Multipart(t *testing.T) {
	an := stubAnalyzer{payload: json.RawMessage(`{"percentage": 82, "result": {"health_score": 58, "primary_concerns": ["acne"]}}`)}
	srv := newTestServer(t, an, nil)

	body, ct := multipartImage(t, "image", jpegBytes)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got usecase.AnalyzeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.Analysis.ID)
	assert.Equal(t, 82, got.Analysis.OverallConfidence)
	assert.Equal(t, 58, got.Analysis.HealthScore)
	assert.NotEmpty(t, got.Recommendations)
}

func TestAnalyzeHandler_JSONBase64(t *testing.T) {
	an := stubAnalyzer{payload: json.RawMessage(`{"percentage": 70}`)}
	srv := newTestServer(t, an, nil)

	reqBody, err := json.Marshal(map[string]string{"image": base64.StdEncoding.EncodeToString(jpegBytes)})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeHandler_UnsupportedType(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{}, nil)

	body, ct := multipartImage(t, "image", []byte("%PDF-1.4 not an image"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestAnalyzeHandler_MissingField(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{}, nil)

	body, ct := multipartImage(t, "photo", jpegBytes)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing image field")
}

func TestAnalyzeHandler_BadContentType(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(jpegBytes))
	req.Header.Set("Content-Type", "image/jpeg")
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_UpstreamTimeout(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{err: domain.ErrUpstreamTimeout}, nil)

	body, ct := multipartImage(t, "image", jpegBytes)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.AnalyzeHandler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_TIMEOUT")
}

func withURLParam(req *http.Request, key, val string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestAnalysisHandler(t *testing.T) {
	cache := &stubCache{m: map[string]domain.Analysis{
		"abc": {ID: "abc", HealthScore: 72, DetectedConditions: []domain.Condition{}},
	}}
	srv := newTestServer(t, stubAnalyzer{}, cache)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/analysis/abc", nil), "id", "abc")
	rec := httptest.NewRecorder()
	srv.AnalysisHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Analysis domain.Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 72, got.Analysis.HealthScore)
}

func TestAnalysisHandler_NotFound(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/analysis/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()
	srv.AnalysisHandler()(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRecommendationsHandler(t *testing.T) {
	cache := &stubCache{m: map[string]domain.Analysis{
		"abc": {ID: "abc", HealthScore: 40, DetectedConditions: []domain.Condition{
			{Name: "acne", Confidence: 70, Severity: domain.SeverityModerate},
		}},
	}}
	srv := newTestServer(t, stubAnalyzer{}, cache)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/analysis/abc/recommendations", nil), "id", "abc")
	rec := httptest.NewRecorder()
	srv.RecommendationsHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		AnalysisID      string                 `json:"analysis_id"`
		Recommendations []domain.ScoredProduct `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.AnalysisID)
	assert.NotEmpty(t, got.Recommendations)
}

func TestProductsHandler(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec := httptest.NewRecorder()
	srv.ProductsHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Products []domain.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Products, 2)
}

func TestReadyzHandler(t *testing.T) {
	srv := newTestServer(t, stubAnalyzer{}, nil)
	srv.DBCheck = func(context.Context) error { return nil }
	srv.RedisCheck = func(context.Context) error { return errors.New("redis down") }

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis down")

	srv.RedisCheck = func(context.Context) error { return nil }
	rec = httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
