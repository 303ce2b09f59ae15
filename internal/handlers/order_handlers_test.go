package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iyanhz/gostore/internal/config"
	"github.com/iyanhz/gostore/internal/models"
	"github.com/iyanhz/gostore/internal/store"
)

func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Handlers{
		Store: store.New(db),
		Cfg:   &config.Config{},
		Log:   zap.NewNop(),
	}, mock
}

// asUser stubs the auth middleware by planting the user ID directly.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role",
		"phone", "address", "city", "province", "postal_code", "avatar_url",
		"created_at", "updated_at",
	})
}

func TestCreateOrderIncompleteProfile(t *testing.T) {
	h, mock := newTestHandlers(t)
	now := time.Now()

	// Profile has no shipping fields; checkout is refused before any
	// order SQL runs.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(int64(7)).
		WillReturnRows(userRows().
			AddRow(7, "Buyer", "buyer@example.com", "hash", "user",
				nil, nil, nil, nil, nil, nil, now, now))

	router := gin.New()
	router.POST("/api/orders", asUser(7), h.CreateOrder)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "shipping profile")
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderEmptyCart(t *testing.T) {
	h, mock := newTestHandlers(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(int64(7)).
		WillReturnRows(userRows().
			AddRow(7, "Buyer", "buyer@example.com", "hash", "user",
				"08123", "Jl. Sudirman 1", "Jakarta", "DKI Jakarta", "12190", nil, now, now))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ci.product_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "quantity", "price", "sale_price", "stock"}))
	mock.ExpectRollback()

	router := gin.New()
	router.POST("/api/orders", asUser(7), h.CreateOrder)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByIDForeignOrderIs404(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = (.+) AND user_id =").
		WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "status", "payment_status", "total", "paid_at", "created_at", "updated_at",
		}))

	router := gin.New()
	router.GET("/api/orders/:id", asUser(7), h.GetOrderByID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	h, _ := newTestHandlers(t)

	router := gin.New()
	router.PATCH("/api/orders/:id/status", asUser(1), h.UpdateOrderStatus)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/5/status",
		jsonBody(t, models.UpdateOrderStatusInput{Status: "delivered"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid order status.")
}

func TestSimulatePaymentAlreadyPaidRejected(t *testing.T) {
	h, mock := newTestHandlers(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, user_id, status, payment_status").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "status", "payment_status", "total", "paid_at", "created_at", "updated_at",
		}).AddRow(42, 7, models.OrderStatusProcessing, models.PaymentStatusPaid, 250.0, now, now, now))
	mock.ExpectRollback()

	router := gin.New()
	router.POST("/api/payment/:orderId/simulate", asUser(7), h.SimulatePayment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/42/simulate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Order is already paid.")
	assert.NoError(t, mock.ExpectationsWereMet())
}
