package auth

import (
	"context"
	"fmt"

	"github.com/jobjitsu/interview-api/internal/domain"
)

// StaticVerifier maps fixed tokens to caller ids. Dev and test only.
type StaticVerifier struct {
	tokens map[string]domain.UserID
}

func NewStaticVerifier(tokens map[string]domain.UserID) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

// Verify implements domain.TokenVerifier.
func (v *StaticVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return domain.Identity{}, fmt.Errorf("unknown token: %w", domain.ErrUnauthorized)
	}
	return domain.Identity{CallerID: id}, nil
}
