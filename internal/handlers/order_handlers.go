package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/models"
)

// CreateOrder is the handler for POST /api/orders. The body is empty:
// the order derives entirely from the caller's cart. Checkout requires a
// completed shipping profile and sufficient stock on every line; any
// violation aborts with nothing written.
func (h *Handlers) CreateOrder(c *gin.Context) {
	id := userID(c)

	user, err := h.Store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to create order.")
		return
	}
	if !user.ProfileComplete() {
		fail(c, http.StatusBadRequest, "Please complete your shipping profile before checking out.")
		return
	}

	order, err := h.Store.PlaceOrder(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to create order.")
		return
	}
	respond(c, http.StatusCreated, "Order created successfully.", order)
}

// GetUserOrders is the handler for GET /api/orders.
func (h *Handlers) GetUserOrders(c *gin.Context) {
	orders, err := h.Store.ListUserOrders(c.Request.Context(), userID(c))
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve orders.")
		return
	}
	respond(c, http.StatusOK, "Orders retrieved successfully.", orders)
}

// GetOrderByID is the handler for GET /api/orders/:id. Orders owned by
// someone else are indistinguishable from missing ones.
func (h *Handlers) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.Store.GetUserOrder(c.Request.Context(), userID(c), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve order.")
		return
	}
	respond(c, http.StatusOK, "Order retrieved successfully.", order)
}

// UpdateOrderStatus is the handler for PATCH /api/orders/:id/status
// (admin). The status must be one of the enumerated set.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		fail(c, http.StatusBadRequest, "Invalid order status.")
		return
	}

	order, err := h.Store.UpdateOrderStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		h.failFromStore(c, err, "Failed to update order status.")
		return
	}
	respond(c, http.StatusOK, "Order status updated successfully.", order)
}

// GetAllOrders is the handler for GET /api/orders/admin/all (admin).
func (h *Handlers) GetAllOrders(c *gin.Context) {
	orders, err := h.Store.ListAllOrders(c.Request.Context())
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve orders.")
		return
	}
	respond(c, http.StatusOK, "Orders retrieved successfully.", orders)
}

// DeleteOrder is the handler for DELETE /api/orders/admin/:id (admin).
func (h *Handlers) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteOrder(c.Request.Context(), id); err != nil {
		h.failFromStore(c, err, "Failed to delete order.")
		return
	}
	respond(c, http.StatusOK, "Order deleted successfully.", nil)
}
