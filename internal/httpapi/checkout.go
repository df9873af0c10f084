package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var details models.OrderDetails
	if err := decodeJSON(r, &details); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A started checkout runs to completion even if the client goes away.
	order, err := sessionFrom(r).Checkout.Checkout(context.WithoutCancel(r.Context()), details)
	if err != nil {
		respondError(w, checkoutStatus(err), err.Error())
		return
	}

	placed := *order
	placed.OrderDetails = details.WithoutPayment()
	respondJSON(w, http.StatusCreated, placed)
}

func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrCheckoutInProgress), errors.Is(err, checkout.ErrCartChanged):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.orders.List(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCursor) {
			respondError(w, http.StatusBadRequest, "Invalid cursor")
			return
		}
		h.logger.Printf("list orders: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Printf("get order: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
