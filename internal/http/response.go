package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/internal/cart"
	"github.com/fjod/go_cart/internal/domain"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// statusClientClosedRequest is the nginx convention for a request the client abandoned
const statusClientClosedRequest = 499

func respondJSON(w http.ResponseWriter, l *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		l.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, l *zap.Logger, status int, code, message string) {
	respondJSON(w, l, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError converts domain errors to HTTP status codes
func handleError(w http.ResponseWriter, l *zap.Logger, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		httpStatus = http.StatusBadRequest
		code = "invalid_quantity"
	case errors.Is(err, domain.ErrUnknownTier):
		httpStatus = http.StatusBadRequest
		code = "unknown_tier"
	case errors.Is(err, domain.ErrUnknownProduct):
		httpStatus = http.StatusNotFound
		code = "unknown_product"
	case errors.Is(err, cart.ErrCartNotFound):
		httpStatus = http.StatusNotFound
		code = "cart_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		httpStatus = http.StatusConflict
		code = "insufficient_stock"
	case errors.Is(err, domain.ErrCartCheckedOut):
		httpStatus = http.StatusConflict
		code = "cart_checked_out"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	case errors.Is(err, context.Canceled):
		httpStatus = statusClientClosedRequest
		code = "canceled"
	default:
		respondError(w, l, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, l, httpStatus, code, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, l *zap.Logger, maxBytes int64, dst interface{}) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, l, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
