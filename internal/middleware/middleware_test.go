// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/templates/catalog-admin/internal/config"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiterMemoryBuckets(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Scope: ScopeLogin,
		Limit: PerWindow(2, 2, time.Minute),
	})
	h := rl.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		assert.Equal(t, "login", rec.Header().Get("X-RateLimit-Scope"))
		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), "login quota exhausted")
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.1:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterKeys(t *testing.T) {
	browse := NewRateLimiter(nil, RateLimitConfig{Limit: PerWindow(10, 10, 0)})
	admin := NewRateLimiter(nil, RateLimitConfig{
		Scope:   ScopeAdmin,
		Limit:   PerWindow(10, 10, 0),
		Subject: Account,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "catalog:browse:addr:192.0.2.1", browse.Key(req))
	assert.Equal(t, "catalog:admin:addr:192.0.2.1", admin.Key(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.1, 192.0.2.9")
	assert.Equal(t, "catalog:browse:addr:192.0.2.9", browse.Key(req))

	req = req.WithContext(WithClaims(req.Context(), &AccessTokenClaims{UserID: "u-admin", Role: "admin"}))
	assert.Equal(t, "catalog:admin:user:u-admin", admin.Key(req))
	assert.Equal(t, "catalog:browse:addr:192.0.2.9", browse.Key(req))
}

func TestRateLimiterAdminCountsPerAccount(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Scope:   ScopeAdmin,
		Limit:   PerWindow(1, 1, time.Minute),
		Subject: Account,
	})
	h := rl.Handler(http.HandlerFunc(okHandler))

	serve := func(userID, addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req.RemoteAddr = addr
		req = req.WithContext(WithClaims(req.Context(), &AccessTokenClaims{UserID: userID, Role: "admin"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("u-1", "192.0.2.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, serve("u-1", "192.0.2.2:1"))
	assert.Equal(t, http.StatusOK, serve("u-2", "192.0.2.1:1"))
}

func TestRateLimiterSkipsOperationalRoutes(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit: PerWindow(1, 1, time.Minute),
		Skip:  SkipOperational,
	})
	h := rl.Handler(http.HandlerFunc(okHandler))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Scope"))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS(config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRequestIDEchoed(t *testing.T) {
	rec := httptest.NewRecorder()
	RequestID(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
