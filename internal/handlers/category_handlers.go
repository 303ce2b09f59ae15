package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/models"
)

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, "Invalid "+param+" parameter.")
		return 0, false
	}
	return id, true
}

// GetAllCategories is the handler for GET /api/categories (flat list).
func (h *Handlers) GetAllCategories(c *gin.Context) {
	cats, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve categories.")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	respond(c, http.StatusOK, "Categories retrieved successfully.", cats)
}

// GetCategoryHierarchy is the handler for GET /api/categories/hierarchy.
func (h *Handlers) GetCategoryHierarchy(c *gin.Context) {
	tree, err := h.Store.CategoryTree(c.Request.Context())
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve categories with hierarchy.")
		return
	}
	if tree == nil {
		tree = []models.Category{}
	}
	respond(c, http.StatusOK, "Categories with hierarchy retrieved successfully.", tree)
}

// GetRootCategories is the handler for GET /api/categories/root.
func (h *Handlers) GetRootCategories(c *gin.Context) {
	roots, err := h.Store.RootCategories(c.Request.Context())
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve root categories.")
		return
	}
	if roots == nil {
		roots = []models.Category{}
	}
	respond(c, http.StatusOK, "Root categories retrieved successfully.", roots)
}

// GetCategoryByID is the handler for GET /api/categories/:id.
func (h *Handlers) GetCategoryByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cat, err := h.Store.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve category.")
		return
	}
	respond(c, http.StatusOK, "Category retrieved successfully.", cat)
}

// CreateCategory is the handler for POST /api/categories (admin).
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.Store.CreateCategory(c.Request.Context(), input.Name, input.ParentID)
	if err != nil {
		h.failFromStore(c, err, "Failed to create category.")
		return
	}
	respond(c, http.StatusCreated, "Category created successfully.", cat)
}

// UpdateCategory is the handler for PUT /api/categories/:id (admin).
// Re-parenting onto a descendant is rejected with a 400.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.Store.UpdateCategory(c.Request.Context(), id, input.Name, input.ParentID)
	if err != nil {
		h.failFromStore(c, err, "Failed to update category.")
		return
	}
	respond(c, http.StatusOK, "Category updated successfully.", cat)
}

// DeleteCategory is the handler for DELETE /api/categories/:id (admin).
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		h.failFromStore(c, err, "Failed to delete category.")
		return
	}
	respond(c, http.StatusOK, "Category deleted successfully.", nil)
}
