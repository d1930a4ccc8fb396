package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/cashregister_backend/config"
	"gorm.io/gorm"
)

// CashMovement is one atomic change to a session's cash position.
// Rows are append-only: never updated, never deleted.
type CashMovement struct {
	ID            int           `gorm:"primary_key" json:"id"`
	HubId         string        `gorm:"index;not null" json:"hub_id"`
	SessionId     int           `gorm:"index;not null" json:"session_id"`
	Kind          MovementKind  `gorm:"type:enum('sale','refund','in','out');not null;index" json:"kind"`
	Amount        Money         `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod PaymentMethod `gorm:"type:enum('cash','card','transfer','other');default:'cash';not null" json:"payment_method"`
	Description   string        `gorm:"type:text" json:"description"`
	SaleReference string        `gorm:"size:100;index" json:"sale_reference"`
	RecordedBy    int           `gorm:"not null" json:"recorded_by"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// NewCashMovement is the record-movement request. SessionId zero targets the
// caller's current open session.
type NewCashMovement struct {
	SessionId     int           `json:"session_id"`
	Kind          MovementKind  `json:"kind" binding:"required,movementkind"`
	Amount        Money         `json:"amount" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"omitempty,paymentmethod"`
	Description   string        `json:"description"`
	SaleReference string        `json:"sale_reference"`
}

// SessionLedger loads the session's full movement sequence in append order.
func SessionLedger(ctx context.Context, hubId string, sessionId int) (MovementLedger, error) {
	db := config.GetDB()
	return SessionLedgerOn(db.WithContext(ctx), hubId, sessionId)
}

// SessionLedgerOn is SessionLedger on a caller-supplied handle, so the close
// workflow can read its snapshot inside the closing transaction.
func SessionLedgerOn(db *gorm.DB, hubId string, sessionId int) (MovementLedger, error) {
	var movements []CashMovement
	err := db.
		Where("hub_id = ? AND session_id = ?", hubId, sessionId).
		Order("id ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return MovementLedger(movements), nil
}
