package models

import "time"

// Order statuses. PATCH /orders/:id/status only accepts these.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// ValidOrderStatus reports whether s is one of the allowed order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the model for the 'orders' table.
type Order struct {
	ID            int64      `json:"id" db:"id"`
	UserID        int64      `json:"userId" db:"user_id"`
	Status        string     `json:"status" db:"status"`
	PaymentStatus string     `json:"paymentStatus" db:"payment_status"`
	Total         float64    `json:"total" db:"total"`
	PaidAt        *time.Time `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`

	// Populated for the admin view only.
	UserName  string `json:"userName,omitempty" db:"-"`
	UserEmail string `json:"userEmail,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table.
// UnitPrice is frozen at purchase time and never re-reads the product.
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   int64     `json:"orderId" db:"order_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	ProductName string `json:"productName,omitempty" db:"-"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}
