// AngelaMos | 2026
// upload_handler.go

package product

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/storage"
)

const (
	imageFormField    = "image"
	multipartOverhead = 1 << 20
)

type UploadHandler struct {
	service  *Service
	maxBytes int64
}

func NewUploadHandler(service *Service, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = storage.DefaultMaxImageBytes
	}
	return &UploadHandler{service: service, maxBytes: maxBytes}
}

func (h *UploadHandler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/upload", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/image", h.UploadImage)
		r.Post("/products/{id}/image", h.AttachImage)
		r.Delete("/products/{id}/image", h.DetachImage)
	})
}

func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readImage(w, r)
	if !ok {
		return
	}

	upload, err := h.service.UploadImage(r.Context(), data)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "image uploaded", map[string]any{"image": upload})
}

func (h *UploadHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	data, ok := h.readImage(w, r)
	if !ok {
		return
	}

	p, upload, err := h.service.AttachImage(r.Context(), actor, id, data)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product image uploaded", map[string]any{
		"product": ToProductResponse(p),
		"image":   upload,
	})
}

func (h *UploadHandler) DetachImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.DetachImage(r.Context(), actor, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "product image deleted", productPayload(p))
}

func (h *UploadHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, _, err := r.FormFile(imageFormField)
	if err != nil {
		core.BadRequest(w, "no image file provided")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		core.BadRequest(w, "could not read image file")
		return nil, false
	}

	if int64(len(data)) > h.maxBytes {
		core.BadRequest(w, "image exceeds maximum upload size")
		return nil, false
	}

	return data, true
}
