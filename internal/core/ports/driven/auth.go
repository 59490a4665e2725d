package driven

import "github.com/eulens/eulens/internal/core/domain"

// TokenVerifier validates bearer tokens issued by the sign-in provider
type TokenVerifier interface {
	ParseToken(token string) (*domain.TokenClaims, error)
}
