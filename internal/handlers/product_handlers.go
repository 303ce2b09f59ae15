package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/models"
	"github.com/iyanhz/gostore/internal/store"
)

// GetProducts is the handler for GET /api/products. Supports
// ?category=, ?search=, ?page= and ?limit= query filters.
func (h *Handlers) GetProducts(c *gin.Context) {
	var filter store.ProductFilter

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid category parameter.")
			return
		}
		filter.CategoryID = &id
	}
	filter.Search = c.Query("search")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, err := h.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve products.")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respond(c, http.StatusOK, "Products retrieved successfully.", products)
}

// GetProductByID is the handler for GET /api/products/:id.
func (h *Handlers) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve product.")
		return
	}
	respond(c, http.StatusOK, "Product retrieved successfully.", product)
}

// CreateProduct is the handler for POST /api/products. The body may be
// multipart with an "images" file field; the first image becomes main.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input models.CreateProductInput
	if err := c.ShouldBind(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	imageURLs, err := h.saveProductImages(c)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to save product images.")
		return
	}

	product, err := h.Store.CreateProduct(c.Request.Context(), userID(c), input, imageURLs)
	if err != nil {
		h.failFromStore(c, err, "Failed to create product.")
		return
	}
	respond(c, http.StatusCreated, "Product created successfully.", product)
}

// saveProductImages stores any uploaded "images" files and returns their
// public URLs in upload order.
func (h *Handlers) saveProductImages(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil // not a multipart request; no images
	}

	var urls []string
	for _, file := range form.File["images"] {
		savedPath, publicURL, err := h.saveUpload(file.Filename, "products")
		if err != nil {
			return nil, err
		}
		if err := c.SaveUploadedFile(file, savedPath); err != nil {
			return nil, err
		}
		urls = append(urls, publicURL)
	}
	return urls, nil
}

// canEditProduct allows the owner or an admin through.
func (h *Handlers) canEditProduct(c *gin.Context, productUserID int64) bool {
	if productUserID == userID(c) {
		return true
	}
	role, err := h.Store.UserRole(c.Request.Context(), userID(c))
	return err == nil && role == "admin"
}

// UpdateProduct is the handler for PUT /api/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	existing, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve product.")
		return
	}
	if !h.canEditProduct(c, existing.UserID) {
		fail(c, http.StatusForbidden, "You do not have permission to modify this product.")
		return
	}

	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.Store.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		h.failFromStore(c, err, "Failed to update product.")
		return
	}
	respond(c, http.StatusOK, "Product updated successfully.", product)
}

// DeleteProduct is the handler for DELETE /api/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	existing, err := h.Store.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve product.")
		return
	}
	if !h.canEditProduct(c, existing.UserID) {
		fail(c, http.StatusForbidden, "You do not have permission to modify this product.")
		return
	}

	if err := h.Store.DeleteProduct(c.Request.Context(), id); err != nil {
		h.failFromStore(c, err, "Failed to delete product.")
		return
	}
	respond(c, http.StatusOK, "Product deleted successfully.", nil)
}

// AddProductImages is the handler for POST /api/products/:id/images.
func (h *Handlers) AddProductImages(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	imageURLs, err := h.saveProductImages(c)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to save product images.")
		return
	}
	if len(imageURLs) == 0 {
		fail(c, http.StatusBadRequest, "No images uploaded.")
		return
	}

	product, err := h.Store.AddProductImages(c.Request.Context(), productID, imageURLs)
	if err != nil {
		h.failFromStore(c, err, "Failed to add images to product.")
		return
	}
	respond(c, http.StatusOK, "Images added to product successfully.", product)
}

// SetMainProductImage is the handler for
// PUT /api/products/:id/images/:imageId/set-main.
func (h *Handlers) SetMainProductImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}

	if err := h.Store.SetMainImage(c.Request.Context(), productID, imageID); err != nil {
		h.failFromStore(c, err, "Failed to set main image.")
		return
	}
	respond(c, http.StatusOK, "Main image set successfully.", nil)
}

// DeleteProductImage is the handler for DELETE /api/products/images/:imageId.
func (h *Handlers) DeleteProductImage(c *gin.Context) {
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}

	if err := h.Store.DeleteProductImage(c.Request.Context(), imageID); err != nil {
		h.failFromStore(c, err, "Failed to delete product image.")
		return
	}
	respond(c, http.StatusOK, "Product image deleted successfully.", nil)
}
