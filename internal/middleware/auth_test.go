// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

type fakeVerifier struct {
	claims map[string]*AccessTokenClaims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.claims[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("verify: %w", core.ErrTokenInvalid)
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{claims: map[string]*AccessTokenClaims{
		"admin-token": {UserID: "u-admin", Email: "admin@example.com", Role: "admin"},
		"user-token":  {UserID: "u-user", Email: "user@example.com", Role: "user"},
	}}
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-User", GetUserID(r.Context()))
	w.Header().Set("X-Email", GetUserEmail(r.Context()))
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticator(t *testing.T) {
	h := Authenticator(newVerifier())(http.HandlerFunc(echoIdentity))

	tests := []struct {
		name   string
		header string
		code   int
		user   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"invalid", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid", "Bearer user-token", http.StatusOK, "u-user"},
		{"case insensitive scheme", "bearer admin-token", http.StatusOK, "u-admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.user, rec.Header().Get("X-User"))
		})
	}
}

func TestAuthenticatorRevoked(t *testing.T) {
	v := &fakeVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenRevoked)}
	h := Authenticator(v)(http.HandlerFunc(echoIdentity))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(newVerifier())(http.HandlerFunc(echoIdentity))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "admin@example.com", rec.Header().Get("X-Email"))
}

func TestRequireAdmin(t *testing.T) {
	h := Authenticator(newVerifier())(RequireAdmin(http.HandlerFunc(echoIdentity)))

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(echoIdentity)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
