package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cart/internal/cache"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type ReceiptHandler struct {
	receipts cache.ReceiptCache
	logger   *zap.Logger
	timeout  time.Duration
	sfg      singleflight.Group // collapses concurrent lookups of one receipt
}

func NewReceiptHandler(receipts cache.ReceiptCache, logger *zap.Logger, timeout time.Duration) *ReceiptHandler {
	return &ReceiptHandler{
		receipts: receipts,
		logger:   logger,
		timeout:  timeout,
	}
}

type ReceiptLineResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Committed bool   `json:"committed"`
}

type ReceiptResponse struct {
	ID             string                `json:"id"`
	CartID         string                `json:"cart_id"`
	UserID         string                `json:"user_id"`
	Tier           string                `json:"tier"`
	Subtotal       string                `json:"subtotal"`
	DiscountRate   string                `json:"discount_rate"`
	DiscountAmount string                `json:"discount_amount"`
	TotalDue       string                `json:"total_due"`
	Lines          []ReceiptLineResponse `json:"lines"`
	Unfulfilled    []int64               `json:"unfulfilled"`
	CreatedAt      time.Time             `json:"created_at"`
}

func (h *ReceiptHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	if h.receipts == nil {
		respondError(w, h.logger, http.StatusNotFound, "receipts_disabled", "receipt lookup is not configured")
		return
	}

	ctx := r.Context()
	receiptID := chi.URLParam(r, "receipt_id")

	// the lookup is shared by every waiting caller, so it must outlive the request that started it
	v, err, _ := h.sfg.Do(receiptID, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()
		return h.receipts.Get(lookupCtx, receiptID)
	})
	if errors.Is(err, cache.ErrCacheMiss) {
		respondError(w, h.logger, http.StatusNotFound, "receipt_not_found", "receipt not found")
		return
	}
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("cache get error", zap.String("receipt_id", receiptID), zap.Error(err))
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, newReceiptResponse(v.(*domain.Receipt)))
}

func newReceiptResponse(r *domain.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(r.Lines))
	unfulfilled := make([]int64, 0)
	for i, l := range r.Lines {
		lines[i] = ReceiptLineResponse{
			ProductID: l.ProductID,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal().StringFixed(2),
			Committed: l.Committed,
		}
		if !l.Committed {
			unfulfilled = append(unfulfilled, l.ProductID)
		}
	}

	return ReceiptResponse{
		ID:             r.ID,
		CartID:         r.CartID,
		UserID:         r.UserID,
		Tier:           r.Tier.String(),
		Subtotal:       r.Subtotal.StringFixed(2),
		DiscountRate:   r.DiscountRate.StringFixed(2),
		DiscountAmount: r.DiscountAmount.StringFixed(2),
		TotalDue:       r.TotalDue.StringFixed(2),
		Lines:          lines,
		Unfulfilled:    unfulfilled,
		CreatedAt:      r.CreatedAt,
	}
}
