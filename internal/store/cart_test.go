package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestAddToCartUpserts(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT name, stock FROM products WHERE id =").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Keyboard", 5))
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(int64(7), int64(1), 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("SELECT id, user_id, product_id, quantity, created_at, updated_at").
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity", "created_at", "updated_at"}).
			AddRow(3, 7, 1, 4, testTime(t), testTime(t)))

	item, err := s.AddToCart(context.Background(), 7, 1, 2)
	require.NoError(t, err)

	// Quantity comes from the re-read row, not the request: a repeat add
	// accumulates on the existing line.
	assert.Equal(t, 4, item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartUnknownProduct(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT name, stock FROM products WHERE id =").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}))

	_, err := s.AddToCart(context.Background(), 7, 99, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCartInsufficientStock(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT name, stock FROM products WHERE id =").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Keyboard", 1))

	_, err := s.AddToCart(context.Background(), 7, 1, 2)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Keyboard", stockErr.ProductName)
}

func TestCartLinesComputesTotals(t *testing.T) {
	s, mock := newTestStore(t)

	sale := 50.0
	mock.ExpectQuery("SELECT ci.product_id, p.name, p.price, p.sale_price, p.stock, ci.quantity").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "name", "price", "sale_price", "stock", "quantity", "image_url",
		}).
			AddRow(1, "Keyboard", 100.0, nil, 5, 2, "/images/products/kb.png").
			AddRow(2, "Mouse", 80.0, sale, 3, 1, nil))

	lines, err := s.CartLines(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, 100.0, lines[0].UnitPrice)
	assert.Equal(t, 200.0, lines[0].LineTotal)
	assert.Equal(t, 50.0, lines[1].UnitPrice)
	assert.Equal(t, 50.0, lines[1].LineTotal)
}

func TestCartLinesEmpty(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT ci.product_id, p.name, p.price, p.sale_price, p.stock, ci.quantity").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "name", "price", "sale_price", "stock", "quantity", "image_url",
		}))

	lines, err := s.CartLines(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.NotNil(t, lines)
}

func TestSetCartQuantityMissingLine(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("SELECT name, stock FROM products WHERE id =").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Keyboard", 5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cart_items SET quantity = ?")).
		WithArgs(3, sqlmock.AnyArg(), int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.SetCartQuantity(context.Background(), 7, 1, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveFromCartMissingLine(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec("DELETE FROM cart_items WHERE user_id =").
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RemoveFromCart(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}
