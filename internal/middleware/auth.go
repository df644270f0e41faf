package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/chizen/internal/telemetry/tracing"
	"github.com/2beens/chizen/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=auth.go -destination=auth_mock_test.go -package=middleware_test

type Identity struct {
	UserID  string
	IsAdmin bool
}

type tokenVerifier interface {
	VerifyToken(token string) (Identity, error)
}

type identityCtxKey struct{}

// IdentityFromContext returns the identity of a request carrying a valid bearer token.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok
}

type AuthMiddlewareHandler struct {
	verifier        tokenVerifier
	adminPrefixes   []string
	requireAdminJWT bool
}

// NewAuthMiddlewareHandler checks bearer tokens when present. Requests without
// one pass through (demo mode), unless requireAdmin is set and the path is
// under one of the admin prefixes.
func NewAuthMiddlewareHandler(verifier tokenVerifier, requireAdmin bool, adminPrefixes ...string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		verifier:        verifier,
		adminPrefixes:   adminPrefixes,
		requireAdminJWT: requireAdmin,
	}
}

func (h *AuthMiddlewareHandler) isAdminPath(path string) bool {
	for _, prefix := range h.adminPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				span.SetStatus(codes.Ok, "options-ok")
				next.ServeHTTP(w, r)
				return
			}

			adminPath := h.requireAdminJWT && h.isAdminPath(r.URL.Path)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if adminPath {
					log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
					pkg.WriteErrorDetail(w, http.StatusUnauthorized, "Not authenticated")
					span.SetStatus(codes.Error, "missing-auth-token")
					return
				}
				span.SetStatus(codes.Ok, "anonymous")
				next.ServeHTTP(w, r)
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				pkg.WriteErrorDetail(w, http.StatusUnauthorized, "Could not validate credentials")
				span.SetStatus(codes.Error, "malformed-auth-header")
				return
			}

			identity, err := h.verifier.VerifyToken(token)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] %s: %s", r.URL.Path, err)
				pkg.WriteErrorDetail(w, http.StatusUnauthorized, "Could not validate credentials")
				span.SetStatus(codes.Error, "invalid-token")
				span.RecordError(err)
				return
			}

			if adminPath && !identity.IsAdmin {
				pkg.WriteErrorDetail(w, http.StatusForbidden, "Admin access required")
				span.SetStatus(codes.Error, "not-admin")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, identityCtxKey{}, identity)))
		})
	}
}
