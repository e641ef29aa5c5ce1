package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/api/middleware"
	"github.com/incadev/coreadmin/internal/models"
	"github.com/incadev/coreadmin/internal/services"
)

func setupContentRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Content{}))

	handler := NewContentHandler(services.NewContentService(db))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(9))
	})
	router.POST("/content", handler.Create)
	router.GET("/content", handler.List)
	router.GET("/content/:id", handler.Get)
	router.PUT("/content/:id/status", handler.UpdateStatus)
	router.DELETE("/content/:id", handler.Delete)
	return router
}

func TestContentHandler_Lifecycle(t *testing.T) {
	router := setupContentRouter(t)

	var created models.Content
	t.Run("create news draft", func(t *testing.T) {
		w := performJSON(router, "POST", "/content", gin.H{
			"type":     "news",
			"title":    "Semester kickoff",
			"status":   "draft",
			"category": "education",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotZero(t, created.ID)
	})

	t.Run("invalid status for type", func(t *testing.T) {
		w := performJSON(router, "POST", "/content", gin.H{
			"type":   "alert",
			"title":  "Broken",
			"status": "published",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("publish stamps published_at", func(t *testing.T) {
		w := performJSON(router, "PUT", fmt.Sprintf("/content/%d/status", created.ID), gin.H{"status": "published"})
		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.Content
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, models.ContentStatusPublished, updated.Status)
		assert.NotNil(t, updated.PublishedAt)
	})

	t.Run("list published news", func(t *testing.T) {
		w := performJSON(router, "GET", "/content?type=news&status=published", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var items []models.Content
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		assert.Len(t, items, 1)
	})

	t.Run("delete", func(t *testing.T) {
		w := performJSON(router, "DELETE", fmt.Sprintf("/content/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = performJSON(router, "GET", fmt.Sprintf("/content/%d", created.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
