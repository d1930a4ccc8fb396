package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const moduleName = "workflow"

// ClosedSession is the result of a close: the frozen session plus the
// reconciliation outcome. RequiresConfirmation is report-only; the close has
// already happened when the caller sees it.
type ClosedSession struct {
	Session              *models.CashSession         `json:"session"`
	Reconciliation       models.ReconciliationResult `json:"reconciliation"`
	RequiresConfirmation bool                        `json:"requires_confirmation"`
}

func actorFromContext(ctx context.Context) (string, int, error) {
	hubId, ok := utils.GetHubIdFromContext(ctx)
	if !ok || hubId == "" {
		return "", 0, errors.New("hub id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return "", 0, errors.New("user id is required")
	}
	return hubId, userId, nil
}

// OpenCashSession starts a custody period for the calling actor.
// Exactly one of two concurrent opens for the same actor succeeds: session
// creation and registry binding commit in one transaction, and the registry's
// unique actor index is the check-and-set.
func OpenCashSession(ctx context.Context, input *models.NewCashSession) (*models.CashSession, error) {
	hubId, userId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := models.GetCashRegisterSettings(ctx, hubId)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled() {
		return nil, utils.ErrorLedgerNotConfigured
	}
	if settings.OpeningCountRequired() && len(input.Denominations) == 0 {
		return nil, utils.ErrorCountRequired
	}

	// resolve the opening balance: counted breakdown wins, then the explicit
	// amount, then the actor's last closing balance
	var opening models.Money
	switch {
	case len(input.Denominations) > 0:
		opening, err = input.Denominations.Total()
		if err != nil {
			return nil, err
		}
	case input.OpeningBalance != nil:
		opening = *input.OpeningBalance
		if err := opening.Validate(); err != nil {
			return nil, err
		}
	default:
		opening, err = models.LastClosingBalance(ctx, hubId, userId)
		if err != nil {
			return nil, err
		}
	}
	if opening.IsNegative() {
		return nil, utils.ErrorInvalidAmount
	}

	if config.SessionLockViaRedis() {
		release, lerr := utils.ActorLock(ctx, hubId, userId, "cash_session", moduleName, "OpenCashSession")
		if lerr != nil {
			return nil, lerr
		}
		defer release()
	}

	openedAt := time.Now().UTC()
	sessionNumber, err := models.NextSessionNumber(ctx, hubId, openedAt)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	releaseLock, err := AcquireActorSessionLock(ctx, db, hubId, userId)
	if err != nil {
		return nil, err
	}
	defer releaseLock()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	session := models.CashSession{
		HubId:          hubId,
		UserId:         userId,
		SessionNumber:  sessionNumber,
		Status:         models.SessionStatusOpen,
		OpenedAt:       openedAt,
		OpeningBalance: opening,
		OpeningNotes:   input.Notes,
	}
	if err := tx.Create(&session).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := models.BindOpenSession(tx, hubId, userId, session.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(input.Denominations) > 0 {
		count, cerr := models.BuildCashCount(hubId, session.ID, models.CountPhaseOpening, input.Denominations, input.Notes, userId)
		if cerr != nil {
			tx.Rollback()
			return nil, cerr
		}
		if err := tx.Create(count).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordCashMovement appends one movement to an open session.
// All-or-nothing: on any failure (sign mismatch, closed session, negative
// balance policy) no movement row exists.
func RecordCashMovement(ctx context.Context, input *models.NewCashMovement) (*models.CashMovement, error) {
	hubId, userId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := models.GetCashRegisterSettings(ctx, hubId)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled() {
		return nil, utils.ErrorLedgerNotConfigured
	}

	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, utils.ErrorInvalidMovement
	}
	if err := input.Amount.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateMovementAmount(input.Kind, input.Amount); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	// the session row lock is the append critical section: it serializes
	// concurrent appends and excludes a racing close
	session, err := lockOpenSession(tx, hubId, userId, input.SessionId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if !settings.NegativeBalanceAllowed() && input.Amount.IsNegative() {
		ledger, lerr := models.SessionLedgerOn(tx, hubId, session.ID)
		if lerr != nil {
			tx.Rollback()
			return nil, lerr
		}
		if ledger.CurrentBalance(session.OpeningBalance).Add(input.Amount).IsNegative() {
			tx.Rollback()
			return nil, utils.ErrorNegativeBalance
		}
	}

	movement := models.CashMovement{
		HubId:         hubId,
		SessionId:     session.ID,
		Kind:          input.Kind,
		Amount:        input.Amount,
		PaymentMethod: method,
		Description:   input.Description,
		SaleReference: input.SaleReference,
		RecordedBy:    userId,
	}
	if err := tx.Create(&movement).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

// CloseCashSession ends the custody period: reconciles the counted total
// against the ledger, freezes the closing fields and clears the actor's
// registry binding, all in one transaction.
func CloseCashSession(ctx context.Context, input *models.CloseCashSession) (*ClosedSession, error) {
	hubId, userId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := models.GetCashRegisterSettings(ctx, hubId)
	if err != nil {
		return nil, err
	}
	// resolve the counted total: breakdown wins over the manual amount; with
	// neither, the close only proceeds when counting is optional, and the
	// expected balance stands in (an exact close by definition)
	var counted models.Money
	var hasCount bool
	switch {
	case len(input.Denominations) > 0:
		counted, err = input.Denominations.Total()
		if err != nil {
			return nil, err
		}
		hasCount = true
	case input.ClosingBalance != nil:
		counted = *input.ClosingBalance
		if err := counted.Validate(); err != nil {
			return nil, err
		}
		hasCount = true
	default:
		if settings.ClosingCountRequired() {
			return nil, utils.ErrorCountRequired
		}
	}

	if config.SessionLockViaRedis() {
		release, lerr := utils.ActorLock(ctx, hubId, userId, "cash_session", moduleName, "CloseCashSession")
		if lerr != nil {
			return nil, lerr
		}
		defer release()
	}

	db := config.GetDB()
	releaseLock, err := AcquireActorSessionLock(ctx, db, hubId, userId)
	if err != nil {
		return nil, err
	}
	defer releaseLock()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	session, err := lockOpenSession(tx, hubId, userId, input.SessionId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// the row lock above excludes concurrent appends, so this snapshot holds
	// every movement that completed before close began
	ledger, err := models.SessionLedgerOn(tx, hubId, session.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !hasCount {
		counted = ledger.CurrentBalance(session.OpeningBalance)
	}
	result := models.Reconcile(session.OpeningBalance, ledger, counted)

	closedAt := time.Now().UTC()
	res := tx.Model(&models.CashSession{}).
		Where("id = ? AND status = ?", session.ID, models.SessionStatusOpen).
		Updates(map[string]interface{}{
			"status":           models.SessionStatusClosed,
			"closed_at":        closedAt,
			"closing_balance":  result.Counted,
			"expected_balance": result.Expected,
			"discrepancy":      result.Discrepancy,
			"closing_notes":    input.Notes,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.ErrorSessionNotOpen
	}

	if len(input.Denominations) > 0 {
		count, cerr := models.BuildCashCount(hubId, session.ID, models.CountPhaseClosing, input.Denominations, input.Notes, userId)
		if cerr != nil {
			tx.Rollback()
			return nil, cerr
		}
		if err := tx.Create(count).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := models.UnbindOpenSession(tx, hubId, session.UserId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusClosed
	session.ClosedAt = &closedAt
	session.ClosingBalance = &result.Counted
	session.ExpectedBalance = &result.Expected
	session.Discrepancy = &result.Discrepancy
	session.ClosingNotes = input.Notes

	return &ClosedSession{
		Session:              session,
		Reconciliation:       result,
		RequiresConfirmation: models.RequiresConfirmation(result.Discrepancy, settings.ConfirmationThreshold),
	}, nil
}

// GetOpenSession resolves the calling actor's current open session, nil when
// there is none.
func GetOpenSession(ctx context.Context) (*models.CashSession, error) {
	hubId, userId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return models.LookupOpenSession(ctx, hubId, userId)
}

// lockOpenSession resolves the target session (explicit id, or the actor's
// registry binding) and takes its row lock. The session must be Open and
// belong to the calling actor; another user's session is not visible here.
func lockOpenSession(tx *gorm.DB, hubId string, userId int, sessionId int) (*models.CashSession, error) {
	if sessionId == 0 {
		var entry models.OpenSessionEntry
		err := tx.Where("hub_id = ? AND user_id = ?", hubId, userId).First(&entry).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, utils.ErrorSessionNotOpen
			}
			return nil, err
		}
		sessionId = entry.SessionId
	}

	var session models.CashSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("hub_id = ? AND id = ?", hubId, sessionId).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if session.UserId != userId {
		return nil, utils.ErrorRecordNotFound
	}
	if !session.IsOpen() {
		return nil, utils.ErrorSessionNotOpen
	}
	return &session, nil
}
