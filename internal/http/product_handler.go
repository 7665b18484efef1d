package http

import (
	"net/http"

	"github.com/fjod/go_cart/internal/catalog"
	"github.com/fjod/go_cart/internal/store"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog *catalog.Catalog
	ledger  store.StockLedger
	logger  *zap.Logger
}

func NewProductHandler(c *catalog.Catalog, ledger store.StockLedger, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		ledger:  ledger,
		logger:  logger,
	}
}

type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Available   int32  `json:"available"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	available := make(map[int64]int32)
	for _, s := range h.ledger.GetStock(h.catalog.IDs()) {
		available[s.ProductID] = s.Available
	}

	list := h.catalog.List()
	products := make([]ProductResponse, len(list))
	for i, p := range list {
		products[i] = ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
			Available:   available[p.ID],
		}
	}

	respondJSON(w, h.logger, http.StatusOK, &ProductsResponse{Products: products})
}
