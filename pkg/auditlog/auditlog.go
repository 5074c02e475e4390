package auditlog

import (
	"log"

	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

type Repository interface {
	PersistLog(auditlog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	r Repository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(repository Repository) *Auditlog {
	return &Auditlog{r: repository}
}

// Log is best-effort: handlers call it in a goroutine after commit, and a
// failed audit write never fails the request. userID is the acting user; zero
// means the actor is unknown and the column stays NULL.
func (a *Auditlog) Log(action string, userID int, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	if userID != 0 {
		auditLog.UserID = &userID
	}

	if err := a.r.PersistLog(auditLog, data); err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}

	log.Println("Created AuditLog entry for id ", auditLog.ResourceID)
}
