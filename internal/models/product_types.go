package models

import "time"

// Product is the model for the 'products' table.
type Product struct {
	ID          int64    `json:"id" db:"id"`
	UserID      int64    `json:"userId" db:"user_id"` // The owning seller
	CategoryID  *int64   `json:"categoryId,omitempty" db:"category_id"`
	Name        string   `json:"name" db:"name"`
	Slug        string   `json:"slug" db:"slug"`
	Description string   `json:"description" db:"description"`
	Price       float64  `json:"price" db:"price"`
	SalePrice   *float64 `json:"salePrice,omitempty" db:"sale_price"`
	Stock       int      `json:"stock" db:"stock"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (not columns on the products table)
	Category *Category      `json:"category,omitempty" db:"-"`
	Images   []ProductImage `json:"images,omitempty" db:"-"`
}

// ProductImage is the model for the 'product_images' table.
// Exactly one image per product carries is_main = true.
type ProductImage struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	IsMain    bool      `json:"isMain" db:"is_main"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateProductInput binds multipart form fields; images arrive as files.
// Stock is a pointer: the required tag treats a plain zero int as
// absent, and a listing may legitimately start at zero stock.
type CreateProductInput struct {
	Name        string   `form:"name" json:"name" binding:"required"`
	Description string   `form:"description" json:"description" binding:"required"`
	Price       float64  `form:"price" json:"price" binding:"required,gt=0"`
	SalePrice   *float64 `form:"salePrice" json:"salePrice" binding:"omitempty,gt=0"`
	Stock       *int     `form:"stock" json:"stock" binding:"required,gte=0"`
	CategoryID  *int64   `form:"categoryId" json:"categoryId"`
}

type UpdateProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	SalePrice   *float64 `json:"salePrice" binding:"omitempty,gt=0"`
	Stock       int      `json:"stock" binding:"gte=0"`
	CategoryID  *int64   `json:"categoryId"`
}
