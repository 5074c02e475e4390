package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/roles"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/security"
)

var resourceTypes = map[string]bool{
	"purchase":   true,
	"transfer":   true,
	"assignment": true,
	"asset":      true,
	"base":       true,
}

type AuditLogHandler struct {
	Repository *AuditLogRepository
}

func NewHandler(r *AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs/:resourceType/:id", security.Authorize(roles.Admin), h.GetResourceLog)
}

// GetResourceLog returns the audit trail of one resource, newest first.
func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	resourceType := c.Param("resourceType")
	if !resourceTypes[resourceType] {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown resource type"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource id"})
		return
	}

	logs, err := h.Repository.GetResourceLog(id, resourceType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not read audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
