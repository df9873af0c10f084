// Package httpapi exposes the catalog and the per-session cart, wishlist and
// checkout over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/session"
	"github.com/safar/go-storefront/internal/store"
)

// OrderHistory reads back recorded orders. It is optional.
type OrderHistory interface {
	Get(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, cursor string, limit int) (*store.CursorPage, error)
}

type Handler struct {
	catalog  *catalog.Engine
	sessions *session.Manager
	orders   OrderHistory
	logger   *log.Logger
}

// NewHandler wires the API. orders may be nil, in which case the order
// history routes are not mounted.
func NewHandler(cat *catalog.Engine, sessions *session.Manager, orders OrderHistory, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{catalog: cat, sessions: sessions, orders: orders, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type sessionKey struct{}

func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Get(chi.URLParam(r, "sessionId"))
		if err != nil {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}

func productIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
}

// lookupProduct resolves the productId route parameter, writing the error
// response itself when it fails.
func (h *Handler) lookupProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	id, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return models.Product{}, false
	}
	product, ok := h.catalog.GetByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return models.Product{}, false
	}
	return product, true
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
