package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/streetbites/streetbites/pkg/errors"
	"github.com/streetbites/streetbites/pkg/httpclient"
)

func newTestVerifier(endpoint string) *Verifier {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return NewVerifier(endpoint, cfg, logger)
}

func TestVerify_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uid":"user-1","email":"priya@example.com","display_name":"Priya"}`))
	}))
	defer srv.Close()

	claims, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Priya", claims.DisplayName)
}

func TestVerify_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok-bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerify_MissingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok-empty")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
