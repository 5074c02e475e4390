package assets

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/auditlog"
	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/roles"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/security"
)

type AssetHandler struct {
	Repository AssetRepository
	AuditLog   *auditlog.Auditlog
}

func NewAssetHandler(r AssetRepository, a *auditlog.Auditlog) *AssetHandler {
	return &AssetHandler{Repository: r, AuditLog: a}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", security.Authorize(roles.Viewer), h.GetAssets)
	router.POST("/assets", security.Authorize(roles.Admin), h.CreateAsset)
	router.PATCH("/assets/:id", security.Authorize(roles.Admin), h.UpdateAsset)
	router.DELETE("/assets/:id", security.Authorize(roles.Admin), h.RemoveAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if assetType := c.Query("type"); assetType != "" {
		conditions.AddCondition("type", assetType)
	}

	assets, err := h.Repository.GetAssets(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.Repository.PersistAsset(&asset)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset with same name already registered"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset"})
		return
	}

	userID, _ := security.CurrentUserID(c)
	go h.AuditLog.Log(
		"create",
		userID,
		map[string]interface{}{
			"name": asset.Name,
			"type": asset.Type,
			"msg":  "Register asset type in catalog",
		},
		&asset,
	)

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.Repository.UpdateAsset(id, req)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset with same name already registered"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	err = h.Repository.RemoveAsset(id)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete asset", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}
