package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fundme/internal/domain"
)

// TokenIssuer is the iss claim of tokens signed by this service.
const TokenIssuer = "fundme"

// TokenClaims identifies a caller. Subject carries the caller's address.
type TokenClaims struct {
	jwt.RegisteredClaims
}

type callerKey struct{}

// SignJWT issues an HS256 token for addr. A zero ttl issues a token without
// expiry.
func SignJWT(secret string, addr domain.Address, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:  addr.Hex(),
		Issuer:   TokenIssuer,
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyJWT validates token and returns the caller address it names.
func VerifyJWT(secret, token string) (domain.Address, error) {
	var claims TokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(TokenIssuer))
	if err != nil {
		return domain.Address{}, err
	}
	addr, err := domain.ParseAddress(claims.Subject)
	if err != nil {
		return domain.Address{}, fmt.Errorf("subject: %w", err)
	}
	return addr, nil
}

func AuthJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			caller, err := VerifyJWT(secret, strings.TrimSpace(parts[1]))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expired"
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithCaller(r.Context(), caller)))
		})
	}
}

// CallerFromContext returns the authenticated caller address.
func CallerFromContext(ctx context.Context) (domain.Address, bool) {
	v, ok := ctx.Value(callerKey{}).(domain.Address)
	return v, ok
}

func ContextWithCaller(ctx context.Context, caller domain.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}
