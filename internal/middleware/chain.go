package middleware

import (
	"log/slog"
	"net/http"

	"javis/internal/auth"
)

// Chain wraps the router with the request middleware.
// Order: RequestLogger → Recovery → Auth → Routes, so a recovered panic is
// logged with its request ID and still gets a completion line.
func Chain(next http.Handler, verifier auth.JWTVerifier, logger *slog.Logger) http.Handler {
	next = Auth(verifier, logger)(next)
	next = Recovery(logger)(next)
	return RequestLogger(logger)(next)
}
