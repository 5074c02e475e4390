package models

type Base struct {
	ID       int     `json:"id" db:"id"`
	Name     string  `json:"name" binding:"required" db:"name"`
	Location *string `json:"location" db:"location"`
}

func (b *Base) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "base",
	}
}
