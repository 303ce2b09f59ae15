package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iyanhz/gostore/internal/models"
)

// AddToCart upserts a cart line: first add creates the row, repeat adds
// increment the quantity. The requested quantity must not exceed stock.
func (s *Store) AddToCart(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	var name string
	var stock int
	err := s.DB.QueryRowContext(ctx, "SELECT name, stock FROM products WHERE id = ?", productID).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if stock < quantity {
		return nil, &InsufficientStockError{ProductID: productID, ProductName: name}
	}

	now := time.Now()
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = VALUES(updated_at)`,
		userID, productID, quantity, now, now)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CartLines returns the user's cart joined with live product data.
// An empty cart returns an empty slice, not an error; checkout treats
// that as a precondition failure.
func (s *Store) CartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT ci.product_id, p.name, p.price, p.sale_price, p.stock, ci.quantity,
		       (SELECT pi.image_url FROM product_images pi WHERE pi.product_id = p.id AND pi.is_main = TRUE LIMIT 1)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ProductID, &line.Name, &line.Price, &line.SalePrice,
			&line.Stock, &line.Quantity, &line.MainImage); err != nil {
			return nil, err
		}
		line.UnitPrice = line.Price
		if line.SalePrice != nil {
			line.UnitPrice = *line.SalePrice
		}
		line.LineTotal = line.UnitPrice * float64(line.Quantity)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// SetCartQuantity replaces a line's quantity (minimum 1 is enforced at
// the HTTP boundary). The new quantity must not exceed stock.
func (s *Store) SetCartQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	var name string
	var stock int
	err := s.DB.QueryRowContext(ctx, "SELECT name, stock FROM products WHERE id = ?", productID).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if stock < quantity {
		return &InsufficientStockError{ProductID: productID, ProductName: name}
	}

	res, err := s.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE user_id = ? AND product_id = ?",
		quantity, time.Now(), userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// RemoveFromCart deletes one line from the user's cart.
func (s *Store) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	res, err := s.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = ? AND product_id = ?", userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
