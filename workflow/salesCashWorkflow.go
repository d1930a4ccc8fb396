package workflow

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

// CashLedger is the capability the sales flow holds to mirror cash takings
// into the drawer. Absence of tracking is a typed, catchable state
// (ErrorLedgerNotConfigured / ErrorSessionNotOpen), never a reason to fail
// the sale itself; that decision stays with the caller.
type CashLedger interface {
	RecordSalePayment(ctx context.Context, saleNumber string, total models.Money) (*models.CashMovement, error)
	RecordSaleRefund(ctx context.Context, saleNumber string, total models.Money) (*models.CashMovement, error)
}

// sessionCashLedger records against the calling actor's open session.
type sessionCashLedger struct{}

// NewSessionCashLedger returns the ledger bound to the caller's sessions.
func NewSessionCashLedger() CashLedger {
	return sessionCashLedger{}
}

func (sessionCashLedger) RecordSalePayment(ctx context.Context, saleNumber string, total models.Money) (*models.CashMovement, error) {
	if !total.GreaterThan(models.ZeroMoney()) {
		return nil, utils.ErrorInvalidMovement
	}
	return RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:          models.MovementKindSale,
		Amount:        total,
		PaymentMethod: models.PaymentMethodCash,
		Description:   fmt.Sprintf("Sale %s", saleNumber),
		SaleReference: saleNumber,
	})
}

func (sessionCashLedger) RecordSaleRefund(ctx context.Context, saleNumber string, total models.Money) (*models.CashMovement, error) {
	if !total.GreaterThan(models.ZeroMoney()) {
		return nil, utils.ErrorInvalidMovement
	}
	return RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:          models.MovementKindRefund,
		Amount:        total.Neg(),
		PaymentMethod: models.PaymentMethodCash,
		Description:   fmt.Sprintf("Refund %s", saleNumber),
		SaleReference: saleNumber,
	})
}

// noCashLedger is the "no session tracking configured" state.
type noCashLedger struct{}

func (noCashLedger) RecordSalePayment(context.Context, string, models.Money) (*models.CashMovement, error) {
	return nil, utils.ErrorLedgerNotConfigured
}

func (noCashLedger) RecordSaleRefund(context.Context, string, models.Money) (*models.CashMovement, error) {
	return nil, utils.ErrorLedgerNotConfigured
}

// ResolveCashLedger hands the sales flow its capability: the session-backed
// ledger when the hub has the module enabled, the typed no-op otherwise.
func ResolveCashLedger(ctx context.Context) (CashLedger, error) {
	hubId, ok := utils.GetHubIdFromContext(ctx)
	if !ok || hubId == "" {
		return noCashLedger{}, nil
	}
	settings, err := models.GetCashRegisterSettings(ctx, hubId)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled() {
		return noCashLedger{}, nil
	}
	return NewSessionCashLedger(), nil
}
