package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/housevarsha/catalog-service/internal/catalog"
	apperrors "github.com/housevarsha/catalog-service/pkg/errors"
	"github.com/housevarsha/catalog-service/pkg/httputil"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	service *catalog.Service
	secret  string
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, revalidationSecret string, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		secret:  revalidationSecret,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	result := h.service.Products(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	product, ok := h.service.Product(r.Context(), id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetSettings handles GET /api/v1/settings
func (h *CatalogHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	result := h.service.Settings(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Revalidate handles POST /api/v1/revalidate. The shared secret may
// arrive in the X-Revalidate-Secret header or a secret query
// parameter; comparison is constant-time.
func (h *CatalogHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		h.logger.ErrorContext(r.Context(), "revalidation requested but no secret configured")
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_CONFIGURED", Message: "revalidation is not configured"},
		})
		return
	}

	provided := r.Header.Get("X-Revalidate-Secret")
	if provided == "" {
		provided = r.URL.Query().Get("secret")
	}

	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid revalidation secret"), h.logger)
		return
	}

	if err := h.service.Invalidate(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "cache invalidation failed", slog.String("error", err.Error()))
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "revalidated"}})
}
