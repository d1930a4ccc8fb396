package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/cashregister_backend/utils"
	"github.com/shopspring/decimal"
)

// DenominationBreakdown maps a denomination label to how many physical units
// were counted. Labels carry the face value: "100", "bill_100", "coin_0.50".
type DenominationBreakdown map[string]int64

func (d DenominationBreakdown) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *DenominationBreakdown) Scan(value interface{}) error {
	if value == nil {
		*d = DenominationBreakdown{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported denomination column type")
	}
	return json.Unmarshal(raw, d)
}

// FaceValue extracts the monetary face value from a denomination label.
// "bill_100" and "100" both resolve to 100; "coin_0.50" resolves to 0.50.
func FaceValue(label string) (Money, error) {
	raw := label
	if idx := strings.LastIndex(raw, "_"); idx >= 0 {
		raw = raw[idx+1:]
	}
	face, err := MoneyFromString(raw)
	if err != nil {
		return ZeroMoney(), fmt.Errorf("%w: denomination label %q", utils.ErrorInvalidAmount, label)
	}
	if !face.GreaterThan(ZeroMoney()) {
		return ZeroMoney(), fmt.Errorf("%w: denomination label %q has non-positive face value", utils.ErrorInvalidAmount, label)
	}
	return face, nil
}

// Total recomputes the counted total from the breakdown. Counts must be
// non-negative. Callers never get to supply a total of their own: whatever a
// request carries is overwritten with this result.
func (d DenominationBreakdown) Total() (Money, error) {
	total := ZeroMoney()
	for label, count := range d {
		if count < 0 {
			return ZeroMoney(), fmt.Errorf("%w: negative count for %q", utils.ErrorInvalidAmount, label)
		}
		face, err := FaceValue(label)
		if err != nil {
			return ZeroMoney(), err
		}
		total = total.Add(Money{face.Mul(decimal.NewFromInt(count))})
	}
	return total, nil
}

// CashCount is a verification snapshot of physical cash, at most one per
// session per phase. Immutable once written.
type CashCount struct {
	ID            int                   `gorm:"primary_key" json:"id"`
	HubId         string                `gorm:"index;not null" json:"hub_id"`
	SessionId     int                   `gorm:"index:idx_count_session_phase,unique;not null" json:"session_id"`
	Phase         CountPhase            `gorm:"type:enum('opening','closing');not null;index:idx_count_session_phase,unique" json:"phase"`
	Denominations DenominationBreakdown `gorm:"type:json" json:"denominations"`
	Total         Money                 `gorm:"type:decimal(12,2);not null" json:"total"`
	Notes         string                `gorm:"type:text" json:"notes"`
	CountedBy     int                   `gorm:"not null" json:"counted_by"`
	CreatedAt     time.Time             `gorm:"autoCreateTime" json:"created_at"`
}

// BuildCashCount builds a count row with the total recomputed from the
// breakdown; only the workflows persist it, inside their transaction.
func BuildCashCount(hubId string, sessionId int, phase CountPhase, denominations DenominationBreakdown, notes string, countedBy int) (*CashCount, error) {
	total, err := denominations.Total()
	if err != nil {
		return nil, err
	}
	return &CashCount{
		HubId:         hubId,
		SessionId:     sessionId,
		Phase:         phase,
		Denominations: denominations,
		Total:         total,
		Notes:         notes,
		CountedBy:     countedBy,
	}, nil
}
