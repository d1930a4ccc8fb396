package reports

import (
	"context"
	"errors"

	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

// SessionSummaryResponse is one session of the history report, with the
// per-kind totals the dashboard shows (out/refund as absolute magnitudes,
// matching how drawers are talked about).
type SessionSummaryResponse struct {
	SessionId       int                  `json:"session_id"`
	SessionNumber   string               `json:"session_number"`
	UserId          int                  `json:"user_id"`
	Status          models.SessionStatus `json:"status"`
	OpenedAt        string               `json:"opened_at"`
	ClosedAt        string               `json:"closed_at"`
	Duration        string               `json:"duration"`
	OpeningBalance  models.Money         `json:"opening_balance"`
	TotalSales      models.Money         `json:"total_sales"`
	TotalIn         models.Money         `json:"total_in"`
	TotalOut        models.Money         `json:"total_out"`
	TotalRefunds    models.Money         `json:"total_refunds"`
	CurrentBalance  models.Money         `json:"current_balance"`
	ExpectedBalance *models.Money        `json:"expected_balance"`
	ClosingBalance  *models.Money        `json:"closing_balance"`
	Discrepancy     *models.Money        `json:"discrepancy"`
}

const timeLayout = "2006-01-02 15:04:05"

// BuildSessionSummary aggregates one session and its ledger snapshot. Pure.
func BuildSessionSummary(session *models.CashSession, ledger models.MovementLedger) *SessionSummaryResponse {
	summary := &SessionSummaryResponse{
		SessionId:       session.ID,
		SessionNumber:   session.SessionNumber,
		UserId:          session.UserId,
		Status:          session.Status,
		OpenedAt:        session.OpenedAt.Format(timeLayout),
		Duration:        session.Duration(),
		OpeningBalance:  session.OpeningBalance,
		TotalSales:      ledger.TotalByKind(models.MovementKindSale),
		TotalIn:         ledger.TotalByKind(models.MovementKindIn),
		TotalOut:        ledger.TotalByKind(models.MovementKindOut).Abs(),
		TotalRefunds:    ledger.TotalByKind(models.MovementKindRefund).Abs(),
		CurrentBalance:  ledger.CurrentBalance(session.OpeningBalance),
		ExpectedBalance: session.ExpectedBalance,
		ClosingBalance:  session.ClosingBalance,
		Discrepancy:     session.Discrepancy,
	}
	if session.ClosedAt != nil {
		summary.ClosedAt = session.ClosedAt.Format(timeLayout)
	}
	return summary
}

// SessionHistoryReport lists the hub's sessions (newest first) with totals.
func SessionHistoryReport(ctx context.Context, filter models.SessionHistoryFilter) ([]*SessionSummaryResponse, error) {
	hubId, ok := utils.GetHubIdFromContext(ctx)
	if !ok || hubId == "" {
		return nil, errors.New("hub id is required")
	}

	sessions, err := models.ListSessions(ctx, hubId, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]*SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		ledger, lerr := session.Ledger(ctx)
		if lerr != nil {
			return nil, lerr
		}
		summaries = append(summaries, BuildSessionSummary(session, ledger))
	}
	return summaries, nil
}
