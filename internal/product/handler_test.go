// AngelaMos | 2026
// handler_test.go

package product

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-admin/internal/middleware"
)

const roleHeader = "X-Test-Role"

// claimsFromHeader stands in for the JWT authenticator. Requests without
// the header stay anonymous.
func claimsFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Header.Get(roleHeader)
		if role == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
			UserID: adminID,
			Email:  role + "@example.com",
			Role:   role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireClaims(next http.Handler) http.Handler {
	return claimsFromHeader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetClaims(r.Context()) == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func newTestRouter(f *fixture) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, claimsFromHeader, requireClaims, middleware.RequireAdmin)
	NewUploadHandler(f.svc, 0).RegisterRoutes(r, requireClaims, middleware.RequireAdmin)
	return r
}

func doRequest(
	r http.Handler,
	method, target, role, body string,
) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set(roleHeader, role)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func productFrom(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data: %v", body)
	product, ok := data["product"].(map[string]any)
	require.True(t, ok, "missing product: %v", data)
	return product
}

func TestHandlerCreateProduct(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	rec, body := doRequest(r, http.MethodPost, "/products", "admin", `{"name":"Widget","price":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "product created", body["message"])

	p := productFrom(t, body)
	assert.Equal(t, "Widget", p["name"])
	assert.Equal(t, 10.0, p["price"])
	assert.Contains(t, rec.Body.String(), `"price":10.00`)
	assert.Equal(t, false, p["is_deleted"])
	assert.Equal(t, "admin@example.com", p["creator_email"])

	require.Len(t, f.recorder.records, 1)
}

func TestHandlerCreateValidation(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	rec, body := doRequest(r, http.MethodPost, "/products", "admin", `{"name":"","price":-5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["errors"])

	rec, _ = doRequest(r, http.MethodPost, "/products", "admin", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, f.recorder.records)
}

func TestHandlerNonAdminCannotDelete(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	p := widget(t, f)

	rec, _ := doRequest(r, http.MethodDelete, "/products/"+p.ID, "user", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doRequest(r, http.MethodDelete, "/products/"+p.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stored, err := f.svc.Get(t.Context(), p.ID, false)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)
	assert.Len(t, f.recorder.records, 1)
}

func TestHandlerDeleteAndRestore(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	p := widget(t, f)

	rec, body := doRequest(r, http.MethodDelete, "/products/"+p.ID, "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product deleted", body["message"])

	rec, _ = doRequest(r, http.MethodGet, "/products/"+p.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = doRequest(r, http.MethodGet, "/products/"+p.ID, "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, productFrom(t, body)["is_deleted"])

	rec, body = doRequest(r, http.MethodPatch, "/products/"+p.ID+"/restore", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product restored", body["message"])
	assert.Equal(t, false, productFrom(t, body)["is_deleted"])
}

func TestHandlerListIgnoresIncludeDeletedForAnonymous(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	p := widget(t, f)
	require.NoError(t, f.svc.Delete(t.Context(), admin, p.ID))

	_, body := doRequest(r, http.MethodGet, "/products?includeDeleted=true", "", "")
	data := body["data"].(map[string]any)
	assert.Empty(t, data["products"])

	_, body = doRequest(r, http.MethodGet, "/products?includeDeleted=true", "admin", "")
	data = body["data"].(map[string]any)
	assert.Len(t, data["products"], 1)
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, 1.0, pagination["total"])
}

func TestHandlerUpdate(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	p := widget(t, f)

	rec, body := doRequest(r, http.MethodPut, "/products/"+p.ID, "admin", `{"price":"12.5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 12.5, productFrom(t, body)["price"])

	rec, _ = doRequest(r, http.MethodPut, "/products/"+p.ID, "admin", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(r, http.MethodPut, "/products/not-a-uuid", "admin", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerAdminSearch(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	widget(t, f)

	rec, body := doRequest(r, http.MethodGet, "/products/admin/search/widg", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Len(t, data["products"], 1)

	rec, _ = doRequest(r, http.MethodGet, "/products/admin/creator/"+adminID, "user", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerAttachImage(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)
	p := widget(t, f)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "pixel.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/products/"+p.ID+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(roleHeader, "admin")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "product image uploaded", body["message"])
	image := body["data"].(map[string]any)["image"].(map[string]any)
	assert.Equal(t, image["url"], productFrom(t, body)["image_url"])
}

func TestHandlerUploadWithoutFile(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f)

	rec, _ := doRequest(r, http.MethodPost, "/upload/image", "admin", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
