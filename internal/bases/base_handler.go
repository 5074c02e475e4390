package bases

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/auditlog"
	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/roles"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/security"
)

type BaseHandler struct {
	Repository BaseRepository
	AuditLog   *auditlog.Auditlog
}

func NewBaseHandler(r BaseRepository, a *auditlog.Auditlog) *BaseHandler {
	return &BaseHandler{Repository: r, AuditLog: a}
}

func (h *BaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/bases", security.Authorize(roles.Viewer), h.GetBases)
	router.POST("/bases", security.Authorize(roles.Admin), h.CreateBase)
	router.PATCH("/bases/:id", security.Authorize(roles.Admin), h.UpdateBase)
	router.DELETE("/bases/:id", security.Authorize(roles.Admin), h.RemoveBase)
}

func (h *BaseHandler) GetBases(c *gin.Context) {
	bases, err := h.Repository.GetBases()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list bases", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bases)
}

func (h *BaseHandler) CreateBase(c *gin.Context) {
	var base models.Base
	if err := c.ShouldBindJSON(&base); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.Repository.PersistBase(&base)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert base, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert base"})
		return
	}

	userID, _ := security.CurrentUserID(c)
	go h.AuditLog.Log(
		"create",
		userID,
		map[string]interface{}{
			"name":     base.Name,
			"location": base.Location,
			"msg":      "Register base in catalog",
		},
		&base,
	)

	c.JSON(http.StatusCreated, base)
}

func (h *BaseHandler) UpdateBase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid base id"})
		return
	}

	var req UpdateBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	base, err := h.Repository.UpdateBase(id, req)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not update base, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update base", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, base)
}

func (h *BaseHandler) RemoveBase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid base id"})
		return
	}

	err = h.Repository.RemoveBase(id)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete base", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete base", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Base deleted successfully"})
}
