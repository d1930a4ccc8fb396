package models

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"gorm.io/gorm"
)

// SessionNumberPrefix is the prefix of human readable session codes,
// CSH-YYYYMMDD-NNNN with a per-hub, per-day counter starting at 0001.
const SessionNumberPrefix = "CSH"

// CashSession is one continuous cash custody period for one actor.
// Closing fields stay nil until the close transition and are frozen after it.
type CashSession struct {
	ID            int           `gorm:"primary_key" json:"id"`
	HubId         string        `gorm:"index;not null" json:"hub_id"`
	UserId        int           `gorm:"index;not null" json:"user_id"`
	SessionNumber string        `gorm:"size:50;uniqueIndex;not null" json:"session_number"`
	Status        SessionStatus `gorm:"type:enum('open','closed');default:'open';not null;index" json:"status"`

	OpenedAt       time.Time `gorm:"not null;index" json:"opened_at"`
	OpeningBalance Money     `gorm:"type:decimal(12,2);not null" json:"opening_balance"`
	OpeningNotes   string    `gorm:"type:text" json:"opening_notes"`

	ClosedAt        *time.Time `json:"closed_at"`
	ClosingBalance  *Money     `gorm:"type:decimal(12,2)" json:"closing_balance"`
	ExpectedBalance *Money     `gorm:"type:decimal(12,2)" json:"expected_balance"`
	Discrepancy     *Money     `gorm:"type:decimal(12,2)" json:"discrepancy"`
	ClosingNotes    string     `gorm:"type:text" json:"closing_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewCashSession is the open-session request. A nil opening balance falls back
// to the actor's last closing balance (zero when there is none). When a
// denomination breakdown is present its recomputed total wins.
type NewCashSession struct {
	OpeningBalance *Money                `json:"opening_balance"`
	Notes          string                `json:"notes"`
	Denominations  DenominationBreakdown `json:"denominations"`
}

// CloseCashSession is the close-session request. SessionId zero targets the
// caller's current open session. ClosingBalance is the manually counted total;
// when a denomination breakdown is present its recomputed total wins.
type CloseCashSession struct {
	SessionId      int                   `json:"session_id"`
	ClosingBalance *Money                `json:"closing_balance"`
	Notes          string                `json:"notes"`
	Denominations  DenominationBreakdown `json:"denominations"`
}

func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// Duration renders the open span, "<h>h <m>m" or "<m>m".
func (s *CashSession) Duration() string {
	var d time.Duration
	switch {
	case s.IsOpen():
		d = time.Since(s.OpenedAt)
	case s.ClosedAt != nil:
		d = s.ClosedAt.Sub(s.OpenedAt)
	default:
		return "N/A"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Ledger loads the session's movement snapshot.
func (s *CashSession) Ledger(ctx context.Context) (MovementLedger, error) {
	return SessionLedger(ctx, s.HubId, s.ID)
}

// CurrentBalance is opening balance plus the net of all recorded movements,
// live for open sessions.
func (s *CashSession) CurrentBalance(ctx context.Context) (Money, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return ZeroMoney(), err
	}
	return ledger.CurrentBalance(s.OpeningBalance), nil
}

// Counts loads the session's opening/closing verification snapshots.
func (s *CashSession) Counts(ctx context.Context) ([]CashCount, error) {
	db := config.GetDB()
	var counts []CashCount
	err := db.WithContext(ctx).
		Where("hub_id = ? AND session_id = ?", s.HubId, s.ID).
		Order("id ASC").
		Find(&counts).Error
	return counts, err
}

// NextSessionNumber allocates the next CSH-YYYYMMDD-NNNN code for the hub.
// The day is the calendar date in REGISTER_TIMEZONE (UTC when unset), so the
// counter rolls over at the local midnight.
func NextSessionNumber(ctx context.Context, hubId string, openedAt time.Time) (string, error) {
	localDate, err := utils.ConvertToDate(openedAt, os.Getenv("REGISTER_TIMEZONE"))
	if err != nil {
		return "", err
	}
	day := localDate.Format("20060102")
	seqNo, err := utils.GetDailySequence[CashSession](ctx, hubId, SessionNumberPrefix, day, "session_number")
	if err != nil {
		return "", err
	}
	return utils.FormatDailyCode(SessionNumberPrefix, day, seqNo), nil
}

// FetchSession loads one session scoped to the hub.
func FetchSession(ctx context.Context, hubId string, id int) (*CashSession, error) {
	return utils.FetchModel[CashSession](ctx, hubId, id)
}

// LastClosingBalance is the closing balance of the actor's most recently
// closed session; zero when there is none. Used as the suggested opening
// balance for the next session.
func LastClosingBalance(ctx context.Context, hubId string, userId int) (Money, error) {
	db := config.GetDB()
	var last CashSession
	err := db.WithContext(ctx).
		Where("hub_id = ? AND user_id = ? AND status = ?", hubId, userId, SessionStatusClosed).
		Order("closed_at DESC").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ZeroMoney(), nil
		}
		return ZeroMoney(), err
	}
	if last.ClosingBalance == nil {
		return ZeroMoney(), nil
	}
	return *last.ClosingBalance, nil
}

// SessionHistoryFilter narrows ListSessions. Zero values mean no filter.
type SessionHistoryFilter struct {
	UserId   int
	Status   SessionStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// ListSessions returns the hub's sessions, newest first.
func ListSessions(ctx context.Context, hubId string, filter SessionHistoryFilter) ([]*CashSession, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Where("hub_id = ?", hubId)
	if filter.UserId != 0 {
		query = query.Where("user_id = ?", filter.UserId)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("opened_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("opened_at <= ?", *filter.DateTo)
	}
	var sessions []*CashSession
	err := query.Order("opened_at DESC").Find(&sessions).Error
	return sessions, err
}
