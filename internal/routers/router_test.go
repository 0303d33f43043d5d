package routers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pairpad/internal/api"
	"pairpad/internal/compile"
	"pairpad/internal/llm"
	"pairpad/internal/models"
	"pairpad/internal/ocr"
	"pairpad/internal/prompts"
	"pairpad/internal/session"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Generate(context.Context, string) (string, error) { return f.reply, f.err }
func (f *fakeProvider) Name() string                                     { return "fake" }
func (f *fakeProvider) Model() string                                    { return "fake-1" }

func newTestRouter(t *testing.T, compileURL string, provider *fakeProvider) http.Handler {
	t.Helper()
	pm, err := prompts.NewManager()
	require.NoError(t, err)

	logger := zap.NewNop()
	h := api.NewHandlers(
		logger,
		session.NewStore(),
		compile.NewClient(compileURL, logger),
		ocr.NewClient("http://127.0.0.1:1", "k", logger),
		nilable(provider),
		pm,
	)
	return New(h, nil)
}

// nilable converts a typed nil into a nil interface.
func nilable(p *fakeProvider) llm.Provider {
	if p == nil {
		return nil
	}
	return p
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCompileEndpointProxies(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.CompileResponse{Output: "hello\r\nworld"})
	}))
	defer upstream.Close()

	router := newTestRouter(t, upstream.URL, nil)
	rec := postJSON(t, router, "/api/v1/compile", `{"code":"print(1)","lang":"py"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out models.CompileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hello\nworld", out.Output)
}

func TestCompileEndpointValidation(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", nil)

	rec := postJSON(t, router, "/api/v1/compile", `{"code":"x","lang":"rust"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported_lang")

	rec = postJSON(t, router, "/api/v1/compile", `{"lang":"py"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_code")

	rec = postJSON(t, router, "/api/v1/compile", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOCREndpointRequiresSource(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", nil)
	rec := postJSON(t, router, "/api/v1/ocr", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_url")
}

func TestAIEndpointsWithoutProvider(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", nil)

	rec := postJSON(t, router, "/api/v1/ai/explain", `{"code":"x","lang":"py"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = postJSON(t, router, "/api/v1/ai/correct", `{"code":"x","lang":"py"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExplainEndpoint(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", &fakeProvider{reply: "it prints 1"})
	rec := postJSON(t, router, "/api/v1/ai/explain", `{"code":"print(1)","lang":"py","output":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out models.ExplainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "it prints 1", out.Explanation)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, "fake", out.Metadata.Provider)
}

func TestCorrectEndpointStripsFences(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", &fakeProvider{reply: "```py\nprint(1)\n```"})
	rec := postJSON(t, router, "/api/v1/ai/correct", `{"code":"print 1","lang":"py","requestId":"req-7"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out models.CorrectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "print(1)", out.Code)
	assert.Equal(t, "req-7", out.RequestID)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
