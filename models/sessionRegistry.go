package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"gorm.io/gorm"
)

// OpenSessionEntry is the actor -> open-session index. The unique index on
// (hub_id, user_id) is what makes open a single atomic check-and-set: two
// concurrent opens for one actor race on the insert and exactly one wins.
// Sessions themselves are append-only; this table holds only current pointers.
type OpenSessionEntry struct {
	ID        int       `gorm:"primary_key" json:"id"`
	HubId     string    `gorm:"size:64;uniqueIndex:idx_open_actor,priority:1;not null" json:"hub_id"`
	UserId    int       `gorm:"uniqueIndex:idx_open_actor,priority:2;not null" json:"user_id"`
	SessionId int       `gorm:"uniqueIndex;not null" json:"session_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

const mysqlDuplicateEntry = 1062

// BindOpenSession registers sessionId as the actor's open session, on the
// caller's transaction so the binding commits or rolls back with the session
// row. A duplicate key means the actor already has one: ErrorSessionAlreadyOpen.
func BindOpenSession(tx *gorm.DB, hubId string, userId int, sessionId int) error {
	entry := OpenSessionEntry{
		HubId:     hubId,
		UserId:    userId,
		SessionId: sessionId,
	}
	if err := tx.Create(&entry).Error; err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return utils.ErrorSessionAlreadyOpen
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorSessionAlreadyOpen
		}
		return err
	}
	return nil
}

// UnbindOpenSession clears the actor's pointer, on the caller's transaction so
// it is atomic with the close transition.
func UnbindOpenSession(tx *gorm.DB, hubId string, userId int) error {
	res := tx.Where("hub_id = ? AND user_id = ?", hubId, userId).Delete(&OpenSessionEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no open session binding for hub=%s user=%d", hubId, userId)
	}
	return nil
}

// LookupOpenSession resolves the actor's current open session, nil when none.
// Always reads the binding fresh; callers must not cache it across calls.
func LookupOpenSession(ctx context.Context, hubId string, userId int) (*CashSession, error) {
	db := config.GetDB()
	var entry OpenSessionEntry
	err := db.WithContext(ctx).
		Where("hub_id = ? AND user_id = ?", hubId, userId).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return FetchSession(ctx, hubId, entry.SessionId)
}
