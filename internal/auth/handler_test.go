// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-admin/internal/middleware"
)

func newTestRouter(t *testing.T) (*chi.Mux, *fixture) {
	t.Helper()
	f := newFixture(t, true)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.svc), nil)
	return r, f
}

func call(r http.Handler, method, target, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHandlerSignupLoginMeLogout(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, body := call(r, http.MethodPost, "/auth/signup",
		`{"email":"admin@example.com","password":"secret123","role":"admin"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "admin", data["user"].(map[string]any)["role"])

	rec, body = call(r, http.MethodPost, "/auth/login",
		`{"email":"admin@example.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := body["data"].(map[string]any)["token"].(string)

	rec, body = call(r, http.MethodGet, "/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "admin@example.com", me["email"])

	rec, _ = call(r, http.MethodPost, "/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(r, http.MethodGet, "/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerSignupValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, body := call(r, http.MethodPost, "/auth/signup",
		`{"email":"not-an-email","password":"123","role":"root"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, body["errors"], 3)
}

func TestHandlerSignupConflict(t *testing.T) {
	r, _ := newTestRouter(t)
	payload := `{"email":"a@example.com","password":"secret123"}`

	rec, _ := call(r, http.MethodPost, "/auth/signup", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = call(r, http.MethodPost, "/auth/signup", payload, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerLoginBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, body := call(r, http.MethodPost, "/auth/login",
		`{"email":"ghost@example.com","password":"whatever"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestHandlerMeRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, _ := call(r, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
