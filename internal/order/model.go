package order

import "time"

// Order is one committed cart line. TotalPrice is price × quantity frozen at
// checkout time; later catalog price changes never touch it.
type Order struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	// NUMERIC -> string
	TotalPrice string    `json:"total_price"`
	OrderDate  time.Time `json:"order_date"`
}

// ListResponse represents the paginated order history of one user.
// swagger:model
type ListResponse struct {
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// orders found
	Items []Order `json:"items"`
}
