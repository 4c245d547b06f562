package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user id in claims")
)

// Claims represents the claims carried by marketplace-issued access tokens.
// The user ID lives in the registered subject claim; user_id is accepted as
// a fallback for tokens minted by older marketplace versions.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// ResolvedUserID returns the user ID from the subject claim, falling back
// to the legacy user_id claim.
func (c *Claims) ResolvedUserID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

// TokenVerifier validates marketplace-issued access tokens. Tokens are
// minted by the marketplace platform; this service only verifies them.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a token verifier from JWT configuration
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Verify validates a token string and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.ResolvedUserID() == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}
