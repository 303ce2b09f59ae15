package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iyanhz/gostore/internal/models"
)

// GetProfile is the handler for GET /api/user/profile.
func (h *Handlers) GetProfile(c *gin.Context) {
	user, err := h.Store.GetUserByID(c.Request.Context(), userID(c))
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve profile.")
		return
	}

	respond(c, http.StatusOK, "User profile retrieved successfully.", gin.H{
		"user":             user,
		"profileCompleted": user.ProfileComplete(),
	})
}

// UpdateProfile is the handler for PUT /api/user/profile.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	id := userID(c)
	if err := h.Store.UpdateProfile(c.Request.Context(), id, input); err != nil {
		h.failFromStore(c, err, "Failed to update profile.")
		return
	}

	user, err := h.Store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.failFromStore(c, err, "Failed to retrieve profile.")
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully.", gin.H{
		"user":             user,
		"profileCompleted": user.ProfileComplete(),
	})
}

// UpdateAvatar is the handler for PUT /api/user/avatar. The uploaded
// file gets a uuid filename and is served from the static images route.
func (h *Handlers) UpdateAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		fail(c, http.StatusBadRequest, "No file uploaded.")
		return
	}

	savedPath, publicURL, err := h.saveUpload(file.Filename, "avatars")
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to prepare upload directory.")
		return
	}
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to save file.")
		return
	}

	if err := h.Store.UpdateAvatar(c.Request.Context(), userID(c), publicURL); err != nil {
		h.failFromStore(c, err, "Failed to update avatar.")
		return
	}

	respond(c, http.StatusOK, "Avatar updated successfully.", gin.H{"avatarUrl": publicURL})
}

// saveUpload builds a uuid filename under the upload dir and returns the
// on-disk path plus the public URL it will be served from.
func (h *Handlers) saveUpload(originalName, subdir string) (string, string, error) {
	dir := filepath.Join(h.Cfg.Uploads.Dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	ext := filepath.Ext(originalName)
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	savedPath := filepath.Join(dir, name)
	publicURL := fmt.Sprintf("%s/images/%s/%s", h.Cfg.Server.BaseURL, subdir, name)
	return savedPath, publicURL, nil
}
