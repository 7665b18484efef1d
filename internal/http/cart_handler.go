package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/internal/cache"
	"github.com/fjod/go_cart/internal/cart"
	"github.com/fjod/go_cart/internal/catalog"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Checkouter turns a cart into a receipt
type Checkouter interface {
	Checkout(ctx context.Context, c *cart.Cart, tier domain.Tier) (*domain.Receipt, error)
}

type CartHandler struct {
	carts    *cart.Registry
	catalog  *catalog.Catalog
	engine   Checkouter
	receipts cache.ReceiptCache
	logger   *zap.Logger
	timeout  time.Duration
	maxBody  int64
}

// NewCartHandler wires the cart endpoints. receipts may be nil.
func NewCartHandler(
	carts *cart.Registry,
	c *catalog.Catalog,
	engine Checkouter,
	receipts cache.ReceiptCache,
	logger *zap.Logger,
	timeout time.Duration,
	maxBody int64) *CartHandler {

	return &CartHandler{
		carts:    carts,
		catalog:  c,
		engine:   engine,
		receipts: receipts,
		logger:   logger,
		timeout:  timeout,
		maxBody:  maxBody,
	}
}

type CreateCartRequestDTO struct {
	UserID string `json:"user_id"`
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int32 `json:"quantity"`
}

type CheckoutRequestDTO struct {
	Tier string `json:"tier"`
}

type CartItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type CartResponse struct {
	CartID     string             `json:"cart_id"`
	UserID     string             `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	Total      string             `json:"total"`
	CheckedOut bool               `json:"checked_out"`
}

func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req CreateCartRequestDTO
	if !decodeJSON(w, r, h.logger, h.maxBody, &req) {
		return
	}
	if req.UserID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return
	}

	c := h.carts.Create(req.UserID)
	h.logger.Info("cart created", zap.String("cart_id", c.ID), zap.String("user_id", c.UserID))

	h.respondCart(w, http.StatusCreated, c)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "cart_id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "cart_id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req AddItemRequestDTO
	if !decodeJSON(w, r, h.logger, h.maxBody, &req) {
		return
	}
	if _, err := h.catalog.Get(req.ProductID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := c.AddLine(req.ProductID, req.Quantity); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.respondCart(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "cart_id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	productID, ok := productIDParam(w, r, h.logger)
	if !ok {
		return
	}
	if _, err := h.catalog.Get(productID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, h.logger, h.maxBody, &req) {
		return
	}

	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "cart_id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	productID, ok := productIDParam(w, r, h.logger)
	if !ok {
		return
	}

	if err := c.RemoveLine(productID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.Get(chi.URLParam(r, "cart_id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req CheckoutRequestDTO
	if !decodeJSON(w, r, h.logger, h.maxBody, &req) {
		return
	}

	receipt, err := h.engine.Checkout(ctx, c, domain.Tier(req.Tier))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if h.receipts != nil {
		if err := h.receipts.Set(ctx, receipt); err != nil {
			logger.WithTrace(ctx, h.logger).Error("cache set error",
				zap.String("receipt_id", receipt.ID), zap.Error(err))
		}
	}

	respondJSON(w, h.logger, http.StatusCreated, newReceiptResponse(receipt))
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, c *cart.Cart) {
	lines := c.Lines()
	items := make([]CartItemResponse, 0, len(lines))
	for _, l := range lines {
		p, err := h.catalog.Get(l.ProductID)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		items = append(items, CartItemResponse{
			ProductID: l.ProductID,
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: p.Price.StringFixed(2),
			LineTotal: p.Price.Mul(decimal.NewFromInt32(l.Quantity)).StringFixed(2),
		})
	}

	total, err := c.Total(h.catalog)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, status, CartResponse{
		CartID:     c.ID,
		UserID:     c.UserID,
		Items:      items,
		Total:      total.StringFixed(2),
		CheckedOut: c.CheckedOut(),
	})
}

func productIDParam(w http.ResponseWriter, r *http.Request, l *zap.Logger) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, l, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
