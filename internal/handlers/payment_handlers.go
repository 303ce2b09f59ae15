package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SimulatePayment is the handler for POST /api/payment/:orderId/simulate.
// A pending order becomes paid/processing with paidAt stamped; an order
// that is already paid is rejected and stays untouched.
func (h *Handlers) SimulatePayment(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}

	order, err := h.Store.SimulatePayment(c.Request.Context(), orderID)
	if err != nil {
		h.failFromStore(c, err, "Failed to simulate payment.")
		return
	}
	respond(c, http.StatusOK, "Payment simulated successfully.", order)
}
