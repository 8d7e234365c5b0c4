package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/golang-jwt/jwt/v5"

	"github.com/flexbnb/flexbnb-backend/internal/users"
	pkgAuth "github.com/flexbnb/flexbnb-backend/pkg/auth"
	"github.com/flexbnb/flexbnb-backend/pkg/config"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

type fakeSyncer struct {
	user  users.UserDTO
	err   error
	calls int
}

func (f *fakeSyncer) Sync(ctx context.Context, claims *pkgAuth.IdentityClaims) (users.UserDTO, error) {
	f.calls++
	if f.err != nil {
		return users.UserDTO{}, f.err
	}
	return f.user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "flexbnb-test"}
}

func signTestToken(t *testing.T, cfg config.JWTConfig, subject string) string {
	t.Helper()
	token, err := pkgAuth.SignIdentityToken(cfg, time.Now(), time.Hour, pkgAuth.IdentityClaims{
		Email: "ana@example.com",
		Name:  "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var payload types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return payload
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	handler := Auth(testJWTConfig(), &fakeSyncer{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	payload := decodeErrorEnvelope(t, rec)
	if payload.Error.Code != string(pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected code %s got %s", pkgerrors.CodeUnauthorized, payload.Error.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	handler := Auth(testJWTConfig(), &fakeSyncer{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthSyncsIdentityAndSeedsContext(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	syncer := &fakeSyncer{user: users.UserDTO{ID: userID, IsHost: true}}

	var gotUserID string
	var gotIsHost bool
	handler := Auth(cfg, syncer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotIsHost = IsHostFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, cfg, "sub-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if syncer.calls != 1 {
		t.Fatalf("expected 1 sync call got %d", syncer.calls)
	}
	if gotUserID != userID.String() {
		t.Fatalf("expected user id %s got %s", userID, gotUserID)
	}
	if !gotIsHost {
		t.Fatal("expected host flag in context")
	}
}

func TestAuthPropagatesSyncerErrors(t *testing.T) {
	cfg := testJWTConfig()
	syncer := &fakeSyncer{err: pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")}
	handler := Auth(cfg, syncer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, cfg, "sub-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestOptionalAuthPassesAnonymousThrough(t *testing.T) {
	syncer := &fakeSyncer{}
	handler := OptionalAuth(testJWTConfig(), syncer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) != "" {
			t.Fatal("expected anonymous context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if syncer.calls != 0 {
		t.Fatalf("expected no sync calls got %d", syncer.calls)
	}
}

func TestOptionalAuthStillRejectsMalformedToken(t *testing.T) {
	handler := OptionalAuth(testJWTConfig(), &fakeSyncer{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireHostGatesNonHosts(t *testing.T) {
	handler := RequireHost(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithUserID(req.Context(), uuid.NewString())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	ctx = WithIsHost(ctx, true)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
}
