package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/incadev/coreadmin/internal/models"
	"github.com/incadev/coreadmin/internal/services"
)

// InventoryHandler exposes tech asset, software catalog, and license CRUD.
type InventoryHandler struct {
	inventory *services.InventoryService
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// CreateAsset stores a new tech asset.
func (h *InventoryHandler) CreateAsset(c *gin.Context) {
	var asset models.TechAsset
	if err := c.ShouldBindJSON(&asset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.inventory.CreateAsset(&asset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create asset"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListAssets returns assets, optionally filtered by ?status= and ?user_id=.
func (h *InventoryHandler) ListAssets(c *gin.Context) {
	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		id := uint(parsed)
		userID = &id
	}

	assets, err := h.inventory.ListAssets(c.Query("status"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}
	c.JSON(http.StatusOK, assets)
}

// GetAsset returns one asset with its license assignments.
func (h *InventoryHandler) GetAsset(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	asset, err := h.inventory.GetAsset(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load asset"})
		return
	}
	c.JSON(http.StatusOK, asset)
}

// CreateSoftware adds a software catalog entry.
func (h *InventoryHandler) CreateSoftware(c *gin.Context) {
	var sw models.Software
	if err := c.ShouldBindJSON(&sw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.inventory.CreateSoftware(&sw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create software"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListSoftware returns the software catalog with licenses.
func (h *InventoryHandler) ListSoftware(c *gin.Context) {
	sw, err := h.inventory.ListSoftware()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list software"})
		return
	}
	c.JSON(http.StatusOK, sw)
}

// CreateLicense stores a purchased license.
func (h *InventoryHandler) CreateLicense(c *gin.Context) {
	var lic models.License
	if err := c.ShouldBindJSON(&lic); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.inventory.CreateLicense(&lic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create license"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

type AssignLicenseRequest struct {
	LicenseID uint `json:"license_id" binding:"required"`
	AssetID   uint `json:"asset_id" binding:"required"`
}

// AssignLicense links a license seat to an asset.
func (h *InventoryHandler) AssignLicense(c *gin.Context) {
	var req AssignLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.inventory.AssignLicense(req.LicenseID, req.AssetID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLicenseNotFound), errors.Is(err, services.ErrAssetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrLicenseNotAssignable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign license"})
		}
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ReleaseAssignment marks a license assignment released.
func (h *InventoryHandler) ReleaseAssignment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	if err := h.inventory.ReleaseAssignment(uint(id)); err != nil {
		if errors.Is(err, services.ErrLicenseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to release assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment released"})
}
