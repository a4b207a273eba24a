package orders

import "time"

// OrderType is derived from the composition of a cart at checkout time.
const (
	TypeTicket = "ticket"
	TypeCombo  = "combo"
	TypeMenu   = "menu"
	TypeMixed  = "mixed"
)

type Order struct {
	ID          string    `json:"id"`
	UserName    string    `json:"user_name"`
	UserPhone   string    `json:"user_phone"`
	TotalAmount float64   `json:"total_amount"`
	OrderType   string    `json:"order_type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderItem struct {
	OrderID   string  `json:"order_id"`
	ItemType  string  `json:"item_type"`
	ItemID    string  `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}
