package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/auth"
	"github.com/iyanhz/gostore/internal/middleware"
	"github.com/iyanhz/gostore/internal/models"
)

// Register is the handler for POST /api/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password.")
		return
	}

	user, err := h.Store.CreateUser(c.Request.Context(), input.Name, input.Email, password.Hash)
	if err != nil {
		h.failFromStore(c, err, "Failed to register user.")
		return
	}

	respond(c, http.StatusCreated, "User registered successfully.", gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

// Login is the handler for POST /api/auth/login. On success the token is
// both set as a cookie and returned in the body.
func (h *Handlers) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Store.GetUserByEmail(c.Request.Context(), input.Email)
	if err != nil {
		// Not-found and bad-password answer identically.
		fail(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if user.PasswordHash == nil {
		fail(c, http.StatusBadRequest, "This account uses Google authentication. Please sign in with Google.")
		return
	}

	password := models.Password{Hash: *user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error occurred.")
		return
	}
	if !match {
		fail(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := auth.GenerateToken([]byte(h.Cfg.JWT.Secret), user.ID, h.Cfg.JWT.TTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	h.setAuthCookie(c, token)

	respond(c, http.StatusOK, "Login successful.", gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"avatarUrl": user.AvatarURL,
		},
	})
}

// Logout clears the auth cookie.
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	respond(c, http.StatusOK, "Logged out.", nil)
}

func (h *Handlers) setAuthCookie(c *gin.Context, token string) {
	secure := h.Cfg.Server.AppEnv == "production"
	c.SetCookie(middleware.TokenCookieName, token, int(h.Cfg.JWT.TTL.Seconds()), "/", "", secure, true)
}
