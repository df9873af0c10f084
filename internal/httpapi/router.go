package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/featured", h.ListFeatured)
			r.Get("/{productId}", h.GetProduct)
			r.Get("/{productId}/similar", h.ListSimilar)
		})

		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Use(h.withSession)
			r.Delete("/", h.EndSession)

			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Put("/cart/items/{productId}", h.UpdateCartItem)
			r.Delete("/cart/items/{productId}", h.RemoveCartItem)

			r.Get("/wishlist", h.GetWishlist)
			r.Delete("/wishlist", h.ClearWishlist)
			r.Post("/wishlist/items", h.AddWishlistItem)
			r.Delete("/wishlist/items/{productId}", h.RemoveWishlistItem)

			r.Post("/checkout", h.Checkout)
			r.Get("/notifications", h.DrainNotifications)
		})

		if h.orders != nil {
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.ListOrders)
				r.Get("/{orderNumber}", h.GetOrder)
			})
		}
	})

	return r
}
