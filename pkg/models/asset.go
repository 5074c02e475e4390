package models

type Asset struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" binding:"required" db:"name"`
	Type string `json:"type" binding:"required" db:"type"`
	Unit string `json:"unit" db:"unit"` // 'units', 'rounds', 'liters'
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}
