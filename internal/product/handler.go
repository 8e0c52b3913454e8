// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /products. Reads are public; optionalAuth only
// decides whether deleted rows may be shown.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Patch("/{id}/restore", h.Restore)

			r.Get("/admin/deleted", h.ListDeleted)
			r.Get("/admin/search/{name}", h.SearchByName)
			r.Get("/admin/creator/{userID}", h.ListByCreator)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		Search:    q.Get("search"),
		SortBy:    SortField(q.Get("sortBy")),
		SortOrder: q.Get("sortOrder"),
		Page:      parseIntQuery(r, "page", 1),
		Limit:     parseIntQuery(r, "limit", DefaultPageLimit),
	}
	if middleware.IsAdmin(r.Context()) {
		params.IncludeDeleted = parseBoolQuery(r, "includeDeleted")
	}

	products, pagination, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, "products", ToProductResponseList(products), pagination)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id, middleware.IsAdmin(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, productPayload(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.CreatedMessage(w, "product created", productPayload(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), actor, id, req.Fields())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product updated", productPayload(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product deleted", nil)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.Restore(r.Context(), actor, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product restored", productPayload(p))
}

func (h *Handler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListDeleted(r.Context())
	writeProducts(w, products, err)
}

func (h *Handler) SearchByName(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.SearchByName(r.Context(), chi.URLParam(r, "name"))
	writeProducts(w, products, err)
}

func (h *Handler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	products, err := h.service.ListByCreator(r.Context(), userID)
	writeProducts(w, products, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.ValidationFailed(w, core.ValidationErrors(err))
		return false
	}

	return true
}

func productPayload(p *Product) map[string]any {
	return map[string]any{"product": ToProductResponse(p)}
}

func writeProducts(w http.ResponseWriter, products []Product, err error) {
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, map[string]any{"products": ToProductResponseList(products)})
}

func actorFrom(w http.ResponseWriter, r *http.Request) (audit.Actor, bool) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil || claims.Email == "" {
		core.Unauthorized(w, "user not authenticated")
		return audit.Actor{}, false
	}
	return audit.Actor{ID: claims.UserID, Email: claims.Email}, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		core.BadRequest(w, "invalid "+name)
		return "", false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseBoolQuery(r *http.Request, key string) bool {
	val, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && val
}
