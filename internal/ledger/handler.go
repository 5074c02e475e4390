package ledger

import (
	"errors"
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

// Recorder is the engine surface the handler needs; satisfied by *Engine.
type Recorder interface {
	RecordPurchase(req models.PurchaseRequest) (*models.LedgerEntry, error)
	RecordTransfer(req models.TransferRequest) (*models.LedgerEntry, error)
	RecordAssignment(req models.AssignmentRequest) (*models.LedgerEntry, error)
}

type LedgerHandler struct {
	Engine   Recorder
	Entries  EntryRepository
	AuditLog *auditlog.Auditlog
}

func NewHandler(engine Recorder, entries EntryRepository, a *auditlog.Auditlog) *LedgerHandler {
	return &LedgerHandler{
		Engine:   engine,
		Entries:  entries,
		AuditLog: a,
	}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/purchases", security.Authorize(roles.LogisticsOfficer), h.CreatePurchase)
	router.GET("/purchases", security.Authorize(roles.Viewer), h.GetPurchases)
	router.POST("/transfers", security.Authorize(roles.LogisticsOfficer), h.CreateTransfer)
	router.GET("/transfers", security.Authorize(roles.Viewer), h.GetTransfers)
	router.POST("/assignments", security.Authorize(roles.BaseCommander), h.CreateAssignment)
	router.GET("/assignments", security.Authorize(roles.BaseCommander), h.GetAssignments)
}

func (h *LedgerHandler) CreatePurchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	req.UserID = userID

	entry, err := h.Engine.RecordPurchase(req)
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	go h.AuditLog.Log(
		"create",
		userID,
		map[string]interface{}{
			"quantity": entry.Quantity,
			"base_id":  req.BaseID,
			"asset_id": req.AssetID,
			"msg":      "Purchase recorded and inventory updated",
		},
		entry,
	)

	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) CreateTransfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	req.UserID = userID

	entry, err := h.Engine.RecordTransfer(req)
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	go h.AuditLog.Log(
		"create",
		userID,
		map[string]interface{}{
			"quantity":       entry.Quantity,
			"source_base_id": req.SourceBaseID,
			"dest_base_id":   req.DestBaseID,
			"asset_id":       req.AssetID,
			"msg":            "Transfer completed between bases",
		},
		entry,
	)

	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) CreateAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	req.UserID = userID

	entry, err := h.Engine.RecordAssignment(req)
	if err != nil {
		abortWithLedgerError(c, err)
		return
	}

	go h.AuditLog.Log(
		"create",
		userID,
		map[string]interface{}{
			"quantity":       entry.Quantity,
			"base_id":        req.BaseID,
			"asset_id":       req.AssetID,
			"personnel_name": req.PersonnelName,
			"expended":       req.Expended,
			"msg":            "Assignment recorded and inventory updated",
		},
		entry,
	)

	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) GetPurchases(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if baseID, ok := intQuery(c, "base_id"); ok {
		conditions.AddCondition("dest_base_id", baseID)
	}
	if assetID, ok := intQuery(c, "asset_id"); ok {
		conditions.AddCondition("asset_id", assetID)
	}

	h.listEntries(c, models.EntryPurchase, conditions)
}

func (h *LedgerHandler) GetTransfers(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if baseID, ok := intQuery(c, "source_base_id"); ok {
		conditions.AddCondition("source_base_id", baseID)
	}
	if baseID, ok := intQuery(c, "dest_base_id"); ok {
		conditions.AddCondition("dest_base_id", baseID)
	}
	if assetID, ok := intQuery(c, "asset_id"); ok {
		conditions.AddCondition("asset_id", assetID)
	}

	h.listEntries(c, models.EntryTransfer, conditions)
}

func (h *LedgerHandler) GetAssignments(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if baseID, ok := intQuery(c, "base_id"); ok {
		conditions.AddCondition("source_base_id", baseID)
	}
	if assetID, ok := intQuery(c, "asset_id"); ok {
		conditions.AddCondition("asset_id", assetID)
	}
	if expended := c.Query("expended"); expended != "" {
		conditions.AddCondition("expended", expended == "true")
	}

	h.listEntries(c, models.EntryAssignment, conditions)
}

func (h *LedgerHandler) listEntries(c *gin.Context, entryType models.EntryType, conditions repository.QueryBuilder) {
	entries, err := h.Entries.GetEntries(entryType, conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list ledger entries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func abortWithLedgerError(c *gin.Context, err error) {
	var invalidQuantity *custom_error.InvalidQuantityError
	var sameBase *custom_error.SameBaseError
	var unknownReference *custom_error.UnknownReferenceError
	var insufficientStock *custom_error.InsufficientStockError

	switch {
	case errors.As(err, &invalidQuantity), errors.As(err, &sameBase):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &unknownReference):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &insufficientStock):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Storage failure, the operation was rolled back", "details": err.Error()})
	}
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
