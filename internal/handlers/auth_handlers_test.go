package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iyanhz/gostore/internal/models"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT 1 FROM users WHERE email =").
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	router := gin.New()
	router.POST("/api/auth/register", h.Register)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		jsonBody(t, models.RegisterInput{Name: "Dup", Email: "taken@example.com", Password: "password123"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email is already registered.")
}

func TestLoginUnknownEmailAndBadPasswordAnswerAlike(t *testing.T) {
	h, mock := newTestHandlers(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("right password"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("ghost@example.com").
		WillReturnRows(userRows())
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("real@example.com").
		WillReturnRows(userRows().AddRow(
			7, "Real", "real@example.com", string(hash), "user",
			nil, nil, nil, nil, nil, nil, now, now))

	router := gin.New()
	router.POST("/api/auth/login", h.Login)

	bodies := []models.LoginInput{
		{Email: "ghost@example.com", Password: "whatever1"},
		{Email: "real@example.com", Password: "wrong password"},
	}
	var responses []string
	for _, body := range bodies {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		responses = append(responses, w.Body.String())
	}
	assert.Equal(t, responses[0], responses[1])
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	h, mock := newTestHandlers(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("google@example.com").
		WillReturnRows(userRows().AddRow(
			7, "G", "google@example.com", nil, "user",
			nil, nil, nil, nil, nil, nil, now, now))

	router := gin.New()
	router.POST("/api/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, models.LoginInput{Email: "google@example.com", Password: "anything1"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Google")
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	h, mock := newTestHandlers(t)
	h.Cfg.JWT.Secret = "test-secret"
	h.Cfg.JWT.TTL = time.Hour

	hash, err := bcrypt.GenerateFromPassword([]byte("right password"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("real@example.com").
		WillReturnRows(userRows().AddRow(
			7, "Real", "real@example.com", string(hash), "user",
			nil, nil, nil, nil, nil, nil, now, now))

	router := gin.New()
	router.POST("/api/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, models.LoginInput{Email: "real@example.com", Password: "right password"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}
