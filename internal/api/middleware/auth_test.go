package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sivaneshk23/honeypot-api/internal/config"
)

func authedRequest(t *testing.T, mw func(http.Handler) http.Handler, method, key string) *httptest.ResponseRecorder {
	t.Helper()

	var gotKey string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = GetAPIKey(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/honeypot", nil)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code == http.StatusOK && method != "OPTIONS" {
		assert.Equal(t, key, gotKey)
	}
	return w
}

func TestAPIKeyAuth(t *testing.T) {
	mw := APIKeyAuth(config.AuthConfig{
		APIKeys:       []string{"secret-key"},
		TestKeyPrefix: "test_",
	})

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"configured key", "secret-key", http.StatusOK},
		{"test prefix key", "test_anything_goes", http.StatusOK},
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusUnauthorized},
		{"prefix must lead", "xtest_abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authedRequest(t, mw, http.MethodPost, tt.key)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAPIKeyAuth_OptionsBypass(t *testing.T) {
	mw := APIKeyAuth(config.AuthConfig{APIKeys: []string{"secret-key"}})

	w := authedRequest(t, mw, http.MethodOptions, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_NoTestPrefixConfigured(t *testing.T) {
	mw := APIKeyAuth(config.AuthConfig{APIKeys: []string{"secret-key"}})

	w := authedRequest(t, mw, http.MethodPost, "test_abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
