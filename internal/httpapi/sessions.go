package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	ID string `json:"id"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()
	respondJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID})
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(chi.URLParam(r, "sessionId")); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFrom(r).Cart.Snapshot())
}

// AddCartItem defaults the quantity to 1 when it is omitted.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	req := addItemRequest{Quantity: 1}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	product, ok := h.catalog.GetByID(req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	cart := sessionFrom(r).Cart
	cart.AddToCart(product, req.Quantity)
	respondJSON(w, http.StatusOK, cart.Snapshot())
}

// UpdateCartItem sets the quantity outright; zero removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "Quantity must not be negative")
		return
	}

	cart := sessionFrom(r).Cart
	cart.UpdateQuantity(id, req.Quantity)
	respondJSON(w, http.StatusOK, cart.Snapshot())
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	cart := sessionFrom(r).Cart
	cart.RemoveFromCart(id)
	respondJSON(w, http.StatusOK, cart.Snapshot())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart := sessionFrom(r).Cart
	cart.ClearCart()
	respondJSON(w, http.StatusOK, cart.Snapshot())
}

type wishlistItemRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFrom(r).Wishlist.Snapshot())
}

// AddWishlistItem answers 201 when the product was added and 200 when it
// was already saved.
func (h *Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req wishlistItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, ok := h.catalog.GetByID(req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	wishlist := sessionFrom(r).Wishlist
	status := http.StatusOK
	if wishlist.AddToWishlist(product) {
		status = http.StatusCreated
	}
	respondJSON(w, status, wishlist.Snapshot())
}

func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	wishlist := sessionFrom(r).Wishlist
	wishlist.RemoveFromWishlist(id)
	respondJSON(w, http.StatusOK, wishlist.Snapshot())
}

func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	wishlist := sessionFrom(r).Wishlist
	wishlist.ClearWishlist()
	respondJSON(w, http.StatusOK, wishlist.Snapshot())
}

// DrainNotifications returns the notifications queued since the last call,
// oldest first.
func (h *Handler) DrainNotifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFrom(r).Notifications.Drain())
}
