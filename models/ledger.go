package models

import (
	"fmt"

	"github.com/mmdatafocus/cashregister_backend/utils"
)

// MovementLedger is the ordered, append-only movement sequence of one session.
// The slice is a read snapshot; appends go through the record-movement
// workflow, never through the slice.
type MovementLedger []CashMovement

// NetTotal is the signed sum of every movement regardless of kind. Adding it
// to the opening balance yields the expected balance.
func (l MovementLedger) NetTotal() Money {
	total := ZeroMoney()
	for _, m := range l {
		total = total.Add(m.Amount)
	}
	return total
}

// TotalByKind is the signed sum of all movements of one kind.
func (l MovementLedger) TotalByKind(kind MovementKind) Money {
	total := ZeroMoney()
	for _, m := range l {
		if m.Kind == kind {
			total = total.Add(m.Amount)
		}
	}
	return total
}

// CurrentBalance is openingBalance + NetTotal. Pure; callable while the
// session is still open for live balance display.
func (l MovementLedger) CurrentBalance(openingBalance Money) Money {
	return openingBalance.Add(l.NetTotal())
}

// ValidateMovementAmount enforces the sign rule: sale/in amounts are strictly
// positive, out/refund amounts strictly negative, zero is never a movement.
// The sign is checked against the kind, not trusted from the caller.
func ValidateMovementAmount(kind MovementKind, amount Money) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", utils.ErrorInvalidMovement, string(kind))
	}
	if amount.IsZero() {
		return fmt.Errorf("%w: zero amount", utils.ErrorInvalidMovement)
	}
	if kind.IsInbound() && amount.IsNegative() {
		return fmt.Errorf("%w: %s amount must be positive", utils.ErrorInvalidMovement, string(kind))
	}
	if !kind.IsInbound() && !amount.IsNegative() {
		return fmt.Errorf("%w: %s amount must be negative", utils.ErrorInvalidMovement, string(kind))
	}
	return nil
}
