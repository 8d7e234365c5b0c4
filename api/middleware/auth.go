package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/flexbnb/flexbnb-backend/api/responses"
	"github.com/flexbnb/flexbnb-backend/internal/users"
	pkgAuth "github.com/flexbnb/flexbnb-backend/pkg/auth"
	"github.com/flexbnb/flexbnb-backend/pkg/config"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// IdentitySyncer resolves verified token claims to a local user row.
type IdentitySyncer interface {
	Sync(ctx context.Context, claims *pkgAuth.IdentityClaims) (users.UserDTO, error)
}

// Auth validates a bearer token, syncs the local user row and seeds the
// request context with the resulting identity.
func Auth(cfg config.JWTConfig, syncer IdentitySyncer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ctx, err := authenticate(r.Context(), cfg, syncer, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the identity when a bearer token is presented but
// lets anonymous requests through. A malformed token is still rejected,
// so a client never silently loses its identity.
func OptionalAuth(cfg config.JWTConfig, syncer IdentitySyncer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := authenticate(r.Context(), cfg, syncer, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireHost gates host-only surfaces. It assumes Auth ran earlier in
// the chain.
func RequireHost(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if UserIDFromContext(ctx) == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if !IsHostFromContext(ctx) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "host account required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(ctx context.Context, cfg config.JWTConfig, syncer IdentitySyncer, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := pkgAuth.ParseIdentityToken(cfg, token)
	if err != nil {
		return ctx, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	if syncer == nil {
		return ctx, pkgerrors.New(pkgerrors.CodeInternal, "identity syncer unavailable")
	}

	user, err := syncer.Sync(ctx, claims)
	if err != nil {
		return ctx, err
	}

	ctx = context.WithValue(ctx, ctxUserID, user.ID.String())
	ctx = context.WithValue(ctx, ctxIsHost, user.IsHost)

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id": user.ID.String(),
			"is_host": user.IsHost,
		})
	}
	return ctx, nil
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
