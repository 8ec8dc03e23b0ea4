package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/auth"
)

func TestAuthenticateInjectsUserID(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Issue(42)
	require.NoError(t, err)

	var gotID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authenticate(tokens)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, int64(42), gotID)
}

func TestAuthenticateRejections(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	expired := auth.NewTokenManager("test-secret", -time.Hour)
	otherSecret := auth.NewTokenManager("other-secret", time.Hour)

	expiredToken, err := expired.Issue(1)
	require.NoError(t, err)
	foreignToken, err := otherSecret.Issue(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong secret", "Bearer " + foreignToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticate(tokens)(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.False(t, called)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	rec := httptest.NewRecorder()
	CORS(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
