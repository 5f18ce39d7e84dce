package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/streetbites/streetbites/pkg/errors"
	"github.com/streetbites/streetbites/pkg/httpclient"
	"github.com/streetbites/streetbites/pkg/middleware"
)

// Verifier checks bearer tokens against the identity provider's
// token-introspection endpoint. Calls go through the retrying HTTP client
// and a circuit breaker so a struggling provider cannot pile up requests.
type Verifier struct {
	client   *httpclient.CircuitBreakerClient
	endpoint string
	logger   *slog.Logger
}

type introspectionResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// NewVerifier creates a verifier for the given introspection endpoint.
func NewVerifier(endpoint string, cfg httpclient.Config, logger *slog.Logger) *Verifier {
	client := httpclient.New(cfg)
	breaker := httpclient.NewCircuitBreakerClient(
		client,
		httpclient.DefaultCircuitBreakerConfig("identity-provider"),
		logger,
	)
	return &Verifier{
		client:   breaker,
		endpoint: endpoint,
		logger:   logger,
	}
}

// Verify implements middleware.TokenValidator. It returns ErrUnauthorized
// for rejected tokens and ErrUnavailable when the provider cannot be
// reached.
func (v *Verifier) Verify(ctx context.Context, token string) (*middleware.Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build introspection request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(ctx, req)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return nil, apperrors.Unavailable("identity provider")
		}
		return nil, fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.Unauthorized("token rejected")
	default:
		return nil, apperrors.Unavailable("identity provider")
	}

	var body introspectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode introspection response: %w", err)
	}
	if body.UID == "" {
		return nil, apperrors.Unauthorized("token carries no subject")
	}

	return &middleware.Claims{
		UserID:      body.UID,
		Email:       body.Email,
		DisplayName: body.DisplayName,
	}, nil
}
