package domain

// CartLine is a requested quantity of one product inside a cart
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}
