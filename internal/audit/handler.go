// AngelaMos | 2026
// handler.go

package audit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Get("/recent", h.Recent)
		r.Get("/summary", h.Summary)
		r.Get("/date-range", h.ByDateRange)
		r.Get("/product/{id}", h.ByProduct)
		r.Get("/user/{id}", h.ByUser)
		r.Get("/action/{action}", h.ByAction)
		r.Get("/{id}", h.Get)
		r.Delete("/purge", h.Purge)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := Filters{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", DefaultPageLimit),
	}

	var fieldErrs []core.FieldError

	if v := q.Get("user_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			fieldErrs = append(fieldErrs, core.FieldError{Field: "user_id", Message: "must be a valid UUID"})
		}
		filters.UserID = v
	}

	if v := q.Get("product_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			fieldErrs = append(fieldErrs, core.FieldError{Field: "product_id", Message: "must be a valid UUID"})
		}
		filters.ProductID = v
	}

	if v := q.Get("action"); v != "" {
		action, ok := ParseAction(v)
		if !ok {
			fieldErrs = append(fieldErrs, core.FieldError{Field: "action", Message: "unknown action"})
		}
		filters.Action = action
	}

	if v := q.Get("startDate"); v != "" {
		t, err := ParseDate(v)
		if err != nil {
			fieldErrs = append(fieldErrs, core.FieldError{Field: "startDate", Message: err.Error()})
		}
		filters.StartDate = &t
	}

	if v := q.Get("endDate"); v != "" {
		t, err := ParseDate(v)
		if err != nil {
			fieldErrs = append(fieldErrs, core.FieldError{Field: "endDate", Message: err.Error()})
		}
		filters.EndDate = &t
	}

	if len(fieldErrs) > 0 {
		core.ValidationFailed(w, fieldErrs)
		return
	}

	entries, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, "logs", ToEntryResponseList(entries), pagination)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid audit log id")
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"log": ToEntryResponse(entry)})
}

func (h *Handler) ByProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.service.ByProduct(r.Context(), id)
	h.writeLogs(w, entries, err)
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.service.ByUser(r.Context(), id)
	h.writeLogs(w, entries, err)
}

func (h *Handler) ByAction(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ByAction(r.Context(), chi.URLParam(r, "action"))
	h.writeLogs(w, entries, err)
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Recent(r.Context(), parseIntQuery(r, "limit", DefaultRecentLimit))
	h.writeLogs(w, entries, err)
}

func (h *Handler) ByDateRange(w http.ResponseWriter, r *http.Request) {
	rawFrom := r.URL.Query().Get("startDate")
	rawTo := r.URL.Query().Get("endDate")

	if rawFrom == "" || rawTo == "" {
		core.JSONError(w, core.InvalidRangeError("start date and end date are required"))
		return
	}

	from, err := ParseDate(rawFrom)
	if err != nil {
		core.ValidationFailed(w, []core.FieldError{{Field: "startDate", Message: err.Error()}})
		return
	}

	to, err := ParseDate(rawTo)
	if err != nil {
		core.ValidationFailed(w, []core.FieldError{{Field: "endDate", Message: err.Error()}})
		return
	}

	entries, err := h.service.ByDateRange(r.Context(), from, to)
	h.writeLogs(w, entries, err)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"summary": summary})
}

func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			core.ValidationFailed(w, []core.FieldError{{Field: "days", Message: "must be a positive integer"}})
			return
		}
		days = parsed
	}

	result, err := h.service.Purge(r.Context(), days)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, fmt.Sprintf("purged %d audit entries", result.Deleted), result)
}

func (h *Handler) writeLogs(w http.ResponseWriter, entries []Entry, err error) {
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, map[string]any{"logs": ToEntryResponseList(entries)})
}

// ParseDate accepts RFC 3339 timestamps or YYYY-MM-DD dates. A bare date
// is midnight UTC on either bound, so an upper bound of 2024-01-31 stops
// at the first instant of that day.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	if _, err := uuid.Parse(raw); err != nil {
		core.BadRequest(w, "invalid "+name+": must be a valid UUID")
		return "", false
	}
	return raw, true
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
