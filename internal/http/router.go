package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Products *ProductHandler
	Carts    *CartHandler
	Receipts *ReceiptHandler
}

func NewRouter(h Handlers, logger *zap.Logger, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.Products.Get)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.Carts.CreateCart)
			r.Route("/{cart_id}", func(r chi.Router) {
				r.Get("/", h.Carts.GetCart)
				r.Post("/items", h.Carts.AddItem)
				r.Put("/items/{product_id}", h.Carts.UpdateQuantity)
				r.Delete("/items/{product_id}", h.Carts.RemoveItem)
				r.Post("/checkout", h.Carts.Checkout)
			})
		})

		r.Get("/receipts/{receipt_id}", h.Receipts.GetReceipt)
	})

	return r
}
