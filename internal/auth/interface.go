package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the subset of token claims the server reads
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWTVerifier verifies bearer tokens for the optional auth gate.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Returns domain.ErrUnauthorized for any invalid token.
	VerifyToken(tokenString string) (*Claims, error)

	// Close releases resources held by the verifier
	Close() error
}
