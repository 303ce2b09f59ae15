package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iyanhz/gostore/internal/config"
	"github.com/iyanhz/gostore/internal/store"
)

// Handlers holds all dependencies for the HTTP layer. Everything is
// injected from main; nothing here reaches for globals.
type Handlers struct {
	Store *store.Store
	Cfg   *config.Config
	Log   *zap.Logger
}

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// fail writes the standard error envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// failFromStore maps store errors onto HTTP responses. Anything not in
// the taxonomy becomes a 500 with a generic message; the logger keeps
// the detail.
func (h *Handlers) failFromStore(c *gin.Context, err error, fallback string) {
	var stockErr *store.InsufficientStockError

	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, "Record not found.")
	case errors.Is(err, store.ErrCartItemNotFound):
		fail(c, http.StatusNotFound, "Item not found in cart.")
	case errors.Is(err, store.ErrParentNotFound):
		fail(c, http.StatusNotFound, "Parent category not found.")
	case errors.Is(err, store.ErrEmailTaken):
		fail(c, http.StatusConflict, "Email is already registered.")
	case errors.Is(err, store.ErrAlreadyPaid):
		fail(c, http.StatusBadRequest, "Order is already paid.")
	case errors.Is(err, store.ErrEmptyCart):
		fail(c, http.StatusBadRequest, "Cart is empty.")
	case errors.Is(err, store.ErrCircularCategory):
		fail(c, http.StatusBadRequest, "Cannot set parent: this would create a circular reference.")
	case errors.Is(err, store.ErrCategoryHasChildren):
		fail(c, http.StatusBadRequest, "Cannot delete category with children.")
	case errors.As(err, &stockErr):
		fail(c, http.StatusBadRequest, "Insufficient stock for product \""+stockErr.ProductName+"\".")
	default:
		h.Log.Error(fallback, zap.Error(err))
		fail(c, http.StatusInternalServerError, fallback)
	}
}

// userID returns the authenticated user set by the auth middleware.
func userID(c *gin.Context) int64 {
	raw, _ := c.Get("userID")
	return raw.(int64)
}
