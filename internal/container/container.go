package container

import (
	"database/sql"

	auditLogRepo "github.com/ParthPrakashSaini/military-asset-management-system/internal/auditlog"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/assets"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/bases"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/dashboard"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/ledger"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/users"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/auditlog"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/security"
)

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	LoginHandler     *security.LoginHandler
	AuditLogHandler  *auditLogRepo.AuditLogHandler
	AssetHandler     *assets.AssetHandler
	BaseHandler      *bases.BaseHandler
	LedgerHandler    *ledger.LedgerHandler
	DashboardHandler *dashboard.DashboardHandler
	UserHandler      *users.UsersHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	assetRepo := assets.NewAssetRepository(repo)
	baseRepo := bases.NewBaseRepository(repo)
	userRepo := users.NewUserRepository(repo)

	balanceRepo := ledger.NewBalanceRepository(repo)
	entryRepo := ledger.NewEntryRepository(repo)
	engine := ledger.NewEngine(repo, balanceRepo, entryRepo)

	metricsRepo := dashboard.NewMetricsRepository(repo)
	dashboardService := dashboard.NewService(repo, metricsRepo)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		LoginHandler:     security.NewLoginHandler(repo),
		AuditLogHandler:  auditLogRepo.NewHandler(auditRepo),
		AssetHandler:     assets.NewAssetHandler(assetRepo, auditLog),
		BaseHandler:      bases.NewBaseHandler(baseRepo, auditLog),
		LedgerHandler:    ledger.NewHandler(engine, entryRepo, auditLog),
		DashboardHandler: dashboard.NewHandler(dashboardService),
		UserHandler:      users.NewHandler(userRepo),
	}
}
