package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/incadev/coreadmin/internal/models"
	"github.com/incadev/coreadmin/internal/services"
)

// ContentHandler exposes publishing CRUD for news, announcements, and
// alerts.
type ContentHandler struct {
	content *services.ContentService
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type CreateContentRequest struct {
	Type     models.ContentType   `json:"type" binding:"required"`
	Title    string               `json:"title" binding:"required"`
	Body     string               `json:"body"`
	Category string               `json:"category"`
	Status   models.ContentStatus `json:"status"`
}

// Create stores a new item, authored by the caller.
func (h *ContentHandler) Create(c *gin.Context) {
	var req CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	content := &models.Content{
		Type:     req.Type,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Status:   req.Status,
		AuthorID: &author,
	}

	created, err := h.content.Create(content)
	if err != nil {
		if errors.Is(err, services.ErrInvalidContentStatus) || errors.Is(err, services.ErrInvalidNewsCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create content"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List returns items filtered by ?type= and ?status=.
func (h *ContentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	items, err := h.content.List(models.ContentType(c.Query("type")), models.ContentStatus(c.Query("status")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list content"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one item.
func (h *ContentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	content, err := h.content.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load content"})
		return
	}
	c.JSON(http.StatusOK, content)
}

type UpdateContentStatusRequest struct {
	Status models.ContentStatus `json:"status" binding:"required"`
}

// UpdateStatus transitions an item's status, validating it for the type.
func (h *ContentHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	var req UpdateContentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.content.UpdateStatus(uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		case errors.Is(err, services.ErrInvalidContentStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		}
		return
	}
	c.JSON(http.StatusOK, content)
}

// Delete removes an item.
func (h *ContentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	if err := h.content.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "content deleted"})
}
