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

func setupPlanningRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Proposal{}, &models.StrategicGoal{}))

	handler := NewPlanningHandler(services.NewPlanningService(db))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(9))
	})
	router.POST("/planning/proposals", handler.CreateProposal)
	router.GET("/planning/proposals", handler.ListProposals)
	router.GET("/planning/proposals/:id", handler.GetProposal)
	router.PUT("/planning/proposals/:id/status", handler.ReviewProposal)
	router.DELETE("/planning/proposals/:id", handler.DeleteProposal)
	router.POST("/planning/goals", handler.CreateGoal)
	router.GET("/planning/goals", handler.ListGoals)
	router.DELETE("/planning/goals/:id", handler.DeleteGoal)
	return router
}

func TestPlanningHandler_Proposals(t *testing.T) {
	router := setupPlanningRouter(t)

	var created models.Proposal
	t.Run("create", func(t *testing.T) {
		w := performJSON(router, "POST", "/planning/proposals", gin.H{
			"title":       "Wi-Fi coverage in block C",
			"description": "Students report dead zones on the upper floor",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, models.ProposalStatusPending, created.Status)
		assert.Equal(t, uint(9), *created.AuthorID)
	})

	t.Run("title is required", func(t *testing.T) {
		w := performJSON(router, "POST", "/planning/proposals", gin.H{"description": "no title"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("approve", func(t *testing.T) {
		w := performJSON(router, "PUT", fmt.Sprintf("/planning/proposals/%d/status", created.ID), gin.H{"status": "approved"})
		assert.Equal(t, http.StatusOK, w.Code)

		var reviewed models.Proposal
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviewed))
		assert.Equal(t, models.ProposalStatusApproved, reviewed.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		w := performJSON(router, "PUT", fmt.Sprintf("/planning/proposals/%d/status", created.ID), gin.H{"status": "shelved"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list filters by status", func(t *testing.T) {
		w := performJSON(router, "GET", "/planning/proposals?status=approved", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var items []models.Proposal
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		assert.Len(t, items, 1)
	})

	t.Run("delete then get is 404", func(t *testing.T) {
		w := performJSON(router, "DELETE", fmt.Sprintf("/planning/proposals/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = performJSON(router, "GET", fmt.Sprintf("/planning/proposals/%d", created.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPlanningHandler_Goals(t *testing.T) {
	router := setupPlanningRouter(t)

	var created models.StrategicGoal
	t.Run("create", func(t *testing.T) {
		w := performJSON(router, "POST", "/planning/goals", gin.H{
			"name":        "Digitize student records",
			"description": "All enrollment paperwork handled online",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotZero(t, created.ID)
	})

	t.Run("name is required", func(t *testing.T) {
		w := performJSON(router, "POST", "/planning/goals", gin.H{"description": "no name"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := performJSON(router, "GET", "/planning/goals", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var goals []models.StrategicGoal
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &goals))
		assert.Len(t, goals, 1)
	})

	t.Run("delete missing goal is 404", func(t *testing.T) {
		w := performJSON(router, "DELETE", "/planning/goals/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPlanningHandler_CreateWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Proposal{}))

	handler := NewPlanningHandler(services.NewPlanningService(db))
	router := gin.New()
	router.POST("/planning/proposals", handler.CreateProposal)

	w := performJSON(router, "POST", "/planning/proposals", gin.H{"title": "No caller"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
