package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/api/middleware"
	"github.com/incadev/coreadmin/internal/config"
	"github.com/incadev/coreadmin/internal/models"
	"github.com/incadev/coreadmin/internal/services"
)

func setupAuthRouter(t *testing.T) (*services.AuthService, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SecuritySetting{},
		&models.SecurityEvent{},
		&models.UserBlock{},
	))

	settings := services.NewSettingsService(db)
	events := services.NewEventService(db)
	blocks := services.NewBlockService(db)
	detector := services.NewAnomalyDetector(settings, events, blocks)
	enforcement := services.NewEnforcementService(events, blocks, detector)
	cfg := config.Config{Environment: "test", JWTSecret: "test-secret", TokenTTLMinutes: 60}
	auth := services.NewAuthService(db, enforcement, cfg)

	handler := NewAuthHandler(auth, false)
	router := gin.New()
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/logout", handler.Logout)

	protected := router.Group("/", middleware.Auth(auth))
	protected.GET("/auth/me", handler.Me)
	protected.POST("/auth/change-password", handler.ChangePassword)

	return auth, router
}

func postLogin(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	auth, router := setupAuthRouter(t)

	_, err := auth.Register("student@example.edu", "correct-password", "Student")
	assert.NoError(t, err)

	t.Run("success sets cookie and returns token", func(t *testing.T) {
		w := postLogin(router, "student@example.edu", "correct-password")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
		assert.Contains(t, w.Header().Get("Set-Cookie"), "auth_token=")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postLogin(router, "student@example.edu", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/auth/login", bytes.NewReader([]byte(`{"email":"x"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_LoginBlocked(t *testing.T) {
	auth, router := setupAuthRouter(t)

	_, err := auth.Register("target@example.edu", "correct-password", "Target")
	assert.NoError(t, err)

	for i := 0; i < 4; i++ {
		w := postLogin(router, "target@example.edu", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// The fifth failure escalates and the response carries the block info.
	w := postLogin(router, "target@example.edu", "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "account blocked", resp["error"])
	assert.Equal(t, "exceeded failed login threshold", resp["reason"])
	assert.Equal(t, "29 minutos", resp["remaining_time"])

	t.Run("correct password still refused", func(t *testing.T) {
		w := postLogin(router, "target@example.edu", "correct-password")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	auth, router := setupAuthRouter(t)

	_, err := auth.Register("student@example.edu", "correct-password", "Student")
	assert.NoError(t, err)

	w := postLogin(router, "student@example.edu", "correct-password")
	assert.Equal(t, http.StatusOK, w.Code)
	var loginResp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))

	t.Run("with bearer token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+loginResp["token"])
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "student@example.edu", resp["email"])
	})

	t.Run("without token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	auth, router := setupAuthRouter(t)

	_, err := auth.Register("changer@example.edu", "old-password", "Changer")
	assert.NoError(t, err)

	w := postLogin(router, "changer@example.edu", "old-password")
	assert.Equal(t, http.StatusOK, w.Code)
	var loginResp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	token := loginResp["token"]

	change := func(body gin.H) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/auth/change-password", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("wrong old password", func(t *testing.T) {
		w := change(gin.H{"old_password": "not-it", "new_password": "brand-new-pass"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short new password rejected", func(t *testing.T) {
		w := change(gin.H{"old_password": "old-password", "new_password": "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("successful change", func(t *testing.T) {
		w := change(gin.H{"old_password": "old-password", "new_password": "brand-new-pass"})
		assert.Equal(t, http.StatusOK, w.Code)

		w = postLogin(router, "changer@example.edu", "brand-new-pass")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
