package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are immutable once the catalog is built.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// StockInfo contains the current availability of a product
type StockInfo struct {
	ProductID int64 `json:"product_id"`
	Available int32 `json:"available"`
}
