package models

import "time"

type PurchaseRequest struct {
	BaseID     int        `json:"base_id" binding:"required"`
	AssetID    int        `json:"asset_id" binding:"required"`
	Quantity   int        `json:"quantity" binding:"required"`
	OccurredAt *time.Time `json:"occurred_at"`
	UserID     int        `json:"-"`
}

type TransferRequest struct {
	SourceBaseID int        `json:"source_base_id" binding:"required"`
	DestBaseID   int        `json:"dest_base_id" binding:"required"`
	AssetID      int        `json:"asset_id" binding:"required"`
	Quantity     int        `json:"quantity" binding:"required"`
	OccurredAt   *time.Time `json:"occurred_at"`
	UserID       int        `json:"-"`
}

type AssignmentRequest struct {
	BaseID        int        `json:"base_id" binding:"required"`
	AssetID       int        `json:"asset_id" binding:"required"`
	Quantity      int        `json:"quantity" binding:"required"`
	PersonnelName string     `json:"personnel_name" binding:"required"`
	Expended      bool       `json:"expended"`
	OccurredAt    *time.Time `json:"occurred_at"`
	UserID        int        `json:"-"`
}
