// Package auth adapts identity providers to the domain.TokenVerifier
// port. The verifier produces a single normalized Identity; nothing
// downstream inspects token payloads.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jobjitsu/interview-api/internal/domain"
)

// HTTPVerifier checks bearer tokens against an identity provider's
// userinfo endpoint (GET with Authorization header, JSON body with the
// user id).
type HTTPVerifier struct {
	userInfoURL string
	http        *http.Client
}

func NewHTTPVerifier(userInfoURL string, timeout time.Duration) (*HTTPVerifier, error) {
	if userInfoURL == "" {
		return nil, fmt.Errorf("userinfo URL is required")
	}
	return &HTTPVerifier{
		userInfoURL: userInfoURL,
		http:        &http.Client{Timeout: timeout},
	}, nil
}

type userInfoResponse struct {
	ID string `json:"id"`
}

// Verify implements domain.TokenVerifier.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("empty token: %w", domain.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := v.http.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return domain.Identity{}, fmt.Errorf("identity provider rejected token (status %d): %w", res.StatusCode, domain.ErrUnauthorized)
	}

	var info userInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return domain.Identity{}, fmt.Errorf("decoding userinfo response: %w", err)
	}
	if info.ID == "" {
		return domain.Identity{}, fmt.Errorf("userinfo response missing user id: %w", domain.ErrUnauthorized)
	}

	return domain.Identity{CallerID: domain.UserID(info.ID)}, nil
}
