package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/models"
)

// AddToCart is the handler for POST /api/cart/add. Adding the same
// product twice accumulates quantity on a single line.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input models.AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Store.AddToCart(c.Request.Context(), userID(c), input.ProductID, input.Quantity)
	if err != nil {
		h.failFromStore(c, err, "Failed to add to cart.")
		return
	}
	respond(c, http.StatusCreated, "Item added to cart successfully.", item)
}

// GetCart is the handler for GET /api/cart.
func (h *Handlers) GetCart(c *gin.Context) {
	lines, err := h.Store.CartLines(c.Request.Context(), userID(c))
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve cart data.")
		return
	}

	var subtotal float64
	totalItems := 0
	for _, line := range lines {
		subtotal += line.LineTotal
		totalItems += line.Quantity
	}

	respond(c, http.StatusOK, "Cart items retrieved successfully.", gin.H{
		"items":      lines,
		"subtotal":   subtotal,
		"totalItems": totalItems,
	})
}

// UpdateCartItem is the handler for PUT /api/cart/:productId.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}

	var input models.UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Minimum quantity is 1.")
		return
	}

	if err := h.Store.SetCartQuantity(c.Request.Context(), userID(c), productID, input.Quantity); err != nil {
		h.failFromStore(c, err, "Failed to update cart item.")
		return
	}
	respond(c, http.StatusOK, "Cart item quantity updated successfully.", nil)
}

// DeleteCartItem is the handler for DELETE /api/cart/:productId.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}

	if err := h.Store.RemoveFromCart(c.Request.Context(), userID(c), productID); err != nil {
		h.failFromStore(c, err, "Failed to remove cart item.")
		return
	}
	respond(c, http.StatusOK, "Item removed from cart successfully.", nil)
}
