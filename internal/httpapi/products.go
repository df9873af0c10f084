package httpapi

import (
	"net/http"
	"strconv"

	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/store"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	band, err := catalog.ParsePriceBand(q.Get("price"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.catalog.Query(catalog.Query{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		PriceBand: band,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	respondJSON(w, http.StatusOK, store.Paginate(products, page, pageSize))
}

func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.FilterByFeatured())
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookupProduct(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) ListSimilar(w http.ResponseWriter, r *http.Request) {
	product, ok := h.lookupProduct(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	similar, _ := h.catalog.Similar(product.ID, limit)
	respondJSON(w, http.StatusOK, similar)
}

// ListCategories returns the catalog categories with "all" in front, the
// way the listing filter offers them.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]string{catalog.CategoryAll}, h.catalog.Categories()...)
	respondJSON(w, http.StatusOK, categories)
}
