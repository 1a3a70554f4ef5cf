package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/detection"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/engage"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/extraction"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/sessions"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

func newTestHandler(t *testing.T, cfg config.HoneypotConfig) *HoneypotHandler {
	t.Helper()
	log := logger.NewDefault()

	svc := services.NewEngagementService(
		detection.NewClassifier(log),
		extraction.NewExtractor(log),
		engage.New(log, rand.NewSource(1)),
		sessions.NewMemoryStore(100, log),
		nil,
		cfg,
		config.CallbackConfig{},
		log,
	)
	return NewHoneypotHandler(svc, cfg, log)
}

func defaultTestConfig() config.HoneypotConfig {
	return config.HoneypotConfig{
		ScamLatchThreshold:  0.7,
		EngagementThreshold: 8,
		SessionCapacity:     100,
	}
}

func postEngage(t *testing.T, h *HoneypotHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/honeypot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Engage(w, req)
	return w
}

func decodeEngage(t *testing.T, w *httptest.ResponseRecorder) engageResponse {
	t.Helper()
	var resp engageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestEngage_CanonicalRequest(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	w := postEngage(t, h, `{
		"sessionId": "abc-123",
		"message": {"sender": "scammer", "text": "You won a lottery prize!", "timestamp": 1723500000000},
		"conversationHistory": []
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEngage(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Reply)
}

func TestEngage_BareStringMessage(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	w := postEngage(t, h, `{"sessionId": "abc", "message": "hello there my friend"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeEngage(t, w).Reply)
}

func TestEngage_SnakeCaseSessionID(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	w := postEngage(t, h, `{"session_id": "snake", "message": {"text": "hi"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	// The session really was created under the snake_case ID
	req := httptest.NewRequest(http.MethodGet, "/honeypot/sessions/snake", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionID", "snake")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h.GetSession(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEngage_TopLevelText(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	w := postEngage(t, h, `{"sessionId": "s", "text": "you have won a prize"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeEngage(t, w).Reply)
}

func TestEngage_MissingSessionIDInventsOne(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	w := postEngage(t, h, `{"message": {"text": "hello"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decodeEngage(t, w).Status)
}

func TestEngage_MalformedBodyLenient(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	for _, body := range []string{`{not json`, ``, `42`, `"just a string"`} {
		w := postEngage(t, h, body)
		require.Equal(t, http.StatusOK, w.Code, "body %q", body)
		resp := decodeEngage(t, w)
		assert.Equal(t, "success", resp.Status)
		assert.NotEmpty(t, resp.Reply, "the honeypot always stays in character")
	}
}

func TestEngage_MalformedBodyStrict(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.StrictErrors = true
	h := newTestHandler(t, cfg)

	w := postEngage(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Well-formed requests still succeed in strict mode
	w = postEngage(t, h, `{"sessionId": "ok", "message": {"text": "hello"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

// failingReader simulates a client that drops mid-request
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestEngage_BodyReadErrorLenient(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	req := httptest.NewRequest(http.MethodPost, "/honeypot", failingReader{})
	w := httptest.NewRecorder()
	h.Engage(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEngage(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Reply)
}

func TestEngage_BodyReadErrorStrict(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.StrictErrors = true
	h := newTestHandler(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/honeypot", failingReader{})
	w := httptest.NewRecorder()
	h.Engage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/honeypot/sessions/ghost", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionID", "ghost")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	h.GetSession(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStats(t *testing.T) {
	h := newTestHandler(t, defaultTestConfig())

	postEngage(t, h, `{"sessionId": "s1", "message": {"text": "hello"}}`)

	req := httptest.NewRequest(http.MethodGet, "/honeypot/stats", nil)
	w := httptest.NewRecorder()
	h.GetStats(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["total_messages"])
	assert.EqualValues(t, 1, resp["active_sessions"])
}
