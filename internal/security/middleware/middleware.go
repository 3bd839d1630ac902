package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/freehold/internal/identity"
	"github.com/yourorg/freehold/internal/security/ratelimit"
)

type principalContextKey struct{}
type requestIDContextKey struct{}

// publicPaths need no credential: health probes, metrics, and login (the
// credential is in the login body, not the header).
var publicPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
	"/login":   true,
}

// AuthMiddleware resolves the bearer credential to a verified principal and
// stores it in the request context. Protected paths without a valid
// credential get a 401 before any handler runs.
func AuthMiddleware(verifier identity.Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS preflights carry no Authorization header; the CORS
			// handler downstream answers them.
			if r.Method == http.MethodOptions || publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthenticated(w)
				return
			}

			token, err := identity.ExtractToken(authHeader)
			if err != nil {
				unauthenticated(w)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("credential verification failed", slog.String("path", r.URL.Path))
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware applies the per-principal limiter to the authenticated
// surface. Unauthenticated paths pass through; AuthMiddleware already
// rejected anonymous traffic on protected ones.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(principal.Email) {
				log.Warn("rate limit exceeded", slog.String("principal", principal.Email))
				http.Error(w, `{"message":"Too many requests"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware attaches a request id to the context and response
// headers and logs request completion.
func RequestIDMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			w.Header().Set("X-Request-ID", reqID)

			ctx := context.WithValue(r.Context(), requestIDContextKey{}, reqID)
			start := time.Now()

			next.ServeHTTP(w, r.WithContext(ctx))

			log.Info("request completed",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration_ms", time.Since(start)),
			)
		})
	}
}

// PrincipalFromContext returns the verified principal, or nil on
// unauthenticated requests.
func PrincipalFromContext(ctx context.Context) *identity.Claims {
	if c := ctx.Value(principalContextKey{}); c != nil {
		return c.(*identity.Claims)
	}
	return nil
}

// RequestIDFromContext returns the request id, or empty.
func RequestIDFromContext(ctx context.Context) string {
	if id := ctx.Value(requestIDContextKey{}); id != nil {
		return id.(string)
	}
	return ""
}

func unauthenticated(w http.ResponseWriter) {
	http.Error(w, `{"message":"Unauthenticated"}`, http.StatusUnauthorized)
}
