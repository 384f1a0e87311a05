// Package auth guards mutating endpoints with HS256 bearer tokens.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type ctxKey string

// CtxSubject is the context key holding the token subject
const CtxSubject ctxKey = "sub"

// JWTCfg holds JWT authentication configuration
type JWTCfg struct {
	HS256Secret string // HMAC secret for HS256 tokens
}

// Middleware rejects requests without a valid HS256 bearer token carrying a
// subject, and stores the subject in the request context.
func Middleware(cfg JWTCfg) func(http.Handler) http.Handler {
	secret := []byte(cfg.HS256Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.Ctx(r.Context())

			tok, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Warn().Msg("missing bearer token")
				unauthorized(w)
				return
			}

			sub, err := ParseSubject(tok, secret)
			if err != nil {
				logger.Warn().Err(err).Msg("jwt validation failed")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), CtxSubject, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseSubject validates an HS256 token and returns its sub claim.
func ParseSubject(tok string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", jwt.ErrTokenRequiredClaimMissing
	}
	return sub, nil
}

// Subject extracts the authenticated subject from the request context.
// Returns "" when the request did not pass through Middleware.
func Subject(ctx context.Context) string {
	if v, ok := ctx.Value(CtxSubject).(string); ok {
		return v
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="catalogview"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
