package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/roles"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/security"
)

type DashboardHandler struct {
	Service *Service
}

func NewHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", security.Authorize(roles.Viewer), h.GetMetrics)
}

func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	var scope Scope
	if raw := c.Query("base_id"); raw != "" {
		baseID, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid base_id"})
			return
		}
		scope.BaseID = &baseID
	}
	if raw := c.Query("asset_id"); raw != "" {
		assetID, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset_id"})
			return
		}
		scope.AssetID = &assetID
	}

	metrics, err := h.Service.ComputeMetrics(c.Request.Context(), scope)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not compute dashboard metrics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metrics)
}
