package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iyanhz/gostore/internal/models"
)

// checkoutLine is a cart line captured inside the checkout transaction.
type checkoutLine struct {
	ProductID int64
	Name      string
	Quantity  int
	Price     float64
	SalePrice *float64
	Stock     int
}

func (l *checkoutLine) unitPrice() float64 {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return l.Price
}

// PlaceOrder turns the user's cart into an order. Cart read, stock
// validation, order insert, item snapshots, stock decrement and cart
// clearing all run in one serializable transaction: either every row
// is written or none is. Product rows are locked for the duration and the
// decrement carries its own stock >= quantity guard, so two concurrent
// checkouts against the same product can never drive stock negative.
func (s *Store) PlaceOrder(ctx context.Context, userID int64) (*models.Order, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT ci.product_id, p.name, ci.quantity, p.price, p.sale_price, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.product_id
		FOR UPDATE`, userID)
	if err != nil {
		return nil, err
	}

	var lines []checkoutLine
	var total float64
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.Price, &l.SalePrice, &l.Stock); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	for _, l := range lines {
		if l.Quantity > l.Stock {
			return nil, &InsufficientStockError{ProductID: l.ProductID, ProductName: l.Name}
		}
		total += l.unitPrice() * float64(l.Quantity)
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, status, payment_status, total, created_at, updated_at)
		VALUES (?, 'pending', 'pending', ?, ?, ?)`,
		userID, total, now, now)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:            orderID,
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Total:         total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, l := range lines {
		itemRes, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			orderID, l.ProductID, l.Quantity, l.unitPrice(), now)
		if err != nil {
			return nil, err
		}
		itemID, err := itemRes.LastInsertId()
		if err != nil {
			return nil, err
		}

		// Conditional decrement: only applies when the resulting stock
		// stays non-negative. A zero row count means another transaction
		// got there first, so roll everything back.
		decRes, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
			l.Quantity, l.ProductID, l.Quantity)
		if err != nil {
			return nil, err
		}
		if n, _ := decRes.RowsAffected(); n == 0 {
			return nil, &InsufficientStockError{ProductID: l.ProductID, ProductName: l.Name}
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:          itemID,
			OrderID:     orderID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.unitPrice(),
			CreatedAt:   now,
			ProductName: l.Name,
		})
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

const orderColumns = `id, user_id, status, payment_status, total, paid_at, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := scanner.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.Total,
		&o.PaidAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *Store) orderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.created_at, p.name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.CreatedAt, &it.ProductName); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListUserOrders returns the caller's orders, newest first, with items.
func (s *Store) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// GetUserOrder returns one order owned by userID. Orders belonging to
// other users come back as ErrNotFound, not a permission error.
func (s *Store) GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ?", orderID, userID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	items, err := s.orderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// UpdateOrderStatus sets the fulfillment status (admin operation). The
// handler validates the status against the allowed set first.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", status, time.Now(), orderID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := s.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", orderID)
	return scanOrder(row)
}

// ListAllOrders returns every order with buyer summaries, newest first.
func (s *Store) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT o.id, o.user_id, o.status, o.payment_status, o.total, o.paid_at, o.created_at, o.updated_at,
		       u.name, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.Total,
			&o.PaidAt, &o.CreatedAt, &o.UpdatedAt, &o.UserName, &o.UserEmail); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// DeleteOrder removes an order and its items in one transaction.
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", orderID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// CancelOverdueOrders cancels unpaid pending orders older than maxAge and
// restores their stock. Each order is handled in its own transaction so
// one failure does not block the rest of the sweep.
func (s *Store) CancelOverdueOrders(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id FROM orders
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	cancelled := 0
	for _, id := range ids {
		if err := s.cancelOrderRestock(ctx, id); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *Store) cancelOrderRestock(ctx context.Context, orderID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-check status under the row lock; the buyer may have paid since
	// the sweep selected this order.
	var status, paymentStatus string
	err = tx.QueryRowContext(ctx,
		"SELECT status, payment_status FROM orders WHERE id = ? FOR UPDATE", orderID).
		Scan(&status, &paymentStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if status != models.OrderStatusPending || paymentStatus != models.PaymentStatusPending {
		return nil
	}

	itemRows, err := tx.QueryContext(ctx,
		"SELECT product_id, quantity FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return err
	}
	type restock struct {
		productID int64
		quantity  int
	}
	var restocks []restock
	for itemRows.Next() {
		var r restock
		if err := itemRows.Scan(&r.productID, &r.quantity); err != nil {
			itemRows.Close()
			return err
		}
		restocks = append(restocks, r)
	}
	if err := itemRows.Err(); err != nil {
		itemRows.Close()
		return err
	}
	itemRows.Close()

	for _, r := range restocks {
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock + ? WHERE id = ?", r.quantity, r.productID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = 'cancelled', updated_at = ? WHERE id = ?", time.Now(), orderID); err != nil {
		return err
	}

	return tx.Commit()
}
