package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/container"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/middleware"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/security"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	protectedRoutes.Use(middleware.TimeoutMiddleware(30 * time.Second))

	container.AssetHandler.RegisterRoutes(protectedRoutes)
	container.BaseHandler.RegisterRoutes(protectedRoutes)
	container.LedgerHandler.RegisterRoutes(protectedRoutes)
	container.DashboardHandler.RegisterRoutes(protectedRoutes)
	container.UserHandler.RegisterRoutes(protectedRoutes)
	container.AuditLogHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
