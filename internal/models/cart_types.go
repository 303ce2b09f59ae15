package models

import "time"

// CartItem is the model for the 'cart_items' table.
// (user_id, product_id) is unique; repeat adds increment quantity.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is a cart item joined with the live product snapshot
// the cart and checkout views need.
type CartLine struct {
	ProductID int64    `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	Stock     int      `json:"stock"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"` // sale price when set, regular price otherwise
	LineTotal float64  `json:"lineTotal"`
	MainImage *string  `json:"mainImage,omitempty"`
}

type AddToCartInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}
