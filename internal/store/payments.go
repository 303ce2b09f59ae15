package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iyanhz/gostore/internal/models"
)

// SimulatePayment marks a pending order as paid. The order row is locked
// so two simultaneous simulations cannot both succeed: the second sees
// paymentStatus=paid and gets ErrAlreadyPaid with nothing changed.
// There is no gateway behind this; it exists for testing the order flow.
func (s *Store) SimulatePayment(ctx context.Context, orderID int64) (*models.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var o models.Order
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, status, payment_status, total, paid_at, created_at, updated_at
		FROM orders WHERE id = ? FOR UPDATE`, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.Total, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if o.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'paid', status = 'processing', paid_at = ?, updated_at = ?
		WHERE id = ?`, now, now, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	o.PaymentStatus = models.PaymentStatusPaid
	o.Status = models.OrderStatusProcessing
	o.PaidAt = &now
	o.UpdatedAt = now
	return &o, nil
}
