package analyzer_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/adapter/analyzer"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/config"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("ANALYZER_BASE_URL", baseURL)
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestClient_Analyze_ReturnsRawPayload(t *testing.T) {
	image := []byte("fake-jpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/analyze", r.URL.Path)
		var body struct {
			Image       string `json:"image"`
			ContentType string `json:"content_type"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), body.Image)
		assert.Equal(t, "image/jpeg", body.ContentType)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"percentage": 82, "extra_field": true}`))
	}))
	defer srv.Close()

	c := analyzer.New(testConfig(t, srv.URL))
	raw, err := c.Analyze(context.Background(), image, "image/jpeg")
	require.NoError(t, err)
	// The payload comes back untouched, unknown fields included.
	assert.JSONEq(t, `{"percentage": 82, "extra_field": true}`, string(raw))
}

func TestClient_Analyze_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"confidence": {"overall": 0.5}}`))
	}))
	defer srv.Close()

	c := analyzer.New(testConfig(t, srv.URL))
	raw, err := c.Analyze(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.JSONEq(t, `{"confidence": {"overall": 0.5}}`, string(raw))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Analyze_RateLimitIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := analyzer.New(testConfig(t, srv.URL))
	_, err := c.Analyze(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamRateLimit))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Analyze_ClientErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := analyzer.New(testConfig(t, srv.URL))
	_, err := c.Analyze(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestStub_Analyze_IsDeterministic(t *testing.T) {
	t.Parallel()
	s := analyzer.NewStub()
	first, err := s.Analyze(context.Background(), []byte("a"), "image/jpeg")
	require.NoError(t, err)
	second, err := s.Analyze(context.Background(), []byte("b"), "image/png")
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}
