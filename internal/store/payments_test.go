package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyanhz/gostore/internal/models"
)

func paymentOrderColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "status", "payment_status", "total", "paid_at", "created_at", "updated_at",
	})
}

func TestSimulatePaymentSuccess(t *testing.T) {
	s, mock := newTestStore(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, status, payment_status, total, paid_at, created_at, updated_at").
		WithArgs(int64(42)).
		WillReturnRows(paymentOrderColumns().
			AddRow(42, 7, models.OrderStatusPending, models.PaymentStatusPending, 250.0, nil, created, created))
	mock.ExpectExec("UPDATE orders").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := s.SimulatePayment(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	require.NotNil(t, order.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulatePaymentAlreadyPaid(t *testing.T) {
	s, mock := newTestStore(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	paid := created.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, status, payment_status, total, paid_at, created_at, updated_at").
		WithArgs(int64(42)).
		WillReturnRows(paymentOrderColumns().
			AddRow(42, 7, models.OrderStatusProcessing, models.PaymentStatusPaid, 250.0, paid, created, paid))
	mock.ExpectRollback()

	_, err := s.SimulatePayment(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimulatePaymentUnknownOrder(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, status, payment_status, total, paid_at, created_at, updated_at").
		WithArgs(int64(99)).
		WillReturnRows(paymentOrderColumns())
	mock.ExpectRollback()

	_, err := s.SimulatePayment(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
