package models

// Reconciliation of a counted drawer total against the balance implied by the
// ledger. Pure functions, no side effects; called from the close workflow and
// usable on historical sessions.

type DiscrepancyClass string

const (
	DiscrepancyExact    DiscrepancyClass = "exact"
	DiscrepancySurplus  DiscrepancyClass = "surplus"
	DiscrepancyShortage DiscrepancyClass = "shortage"
)

// DefaultConfirmationThreshold is the discrepancy magnitude above which the
// close should ask for an extra confirmation (10 currency units).
func DefaultConfirmationThreshold() Money {
	return MustMoney("10.00")
}

type ReconciliationResult struct {
	Expected       Money            `json:"expected"`
	Counted        Money            `json:"counted"`
	Discrepancy    Money            `json:"discrepancy"`
	Classification DiscrepancyClass `json:"classification"`
}

// Reconcile computes expected = opening + net movements, and
// discrepancy = counted - expected.
func Reconcile(openingBalance Money, ledger MovementLedger, counted Money) ReconciliationResult {
	expected := ledger.CurrentBalance(openingBalance)
	discrepancy := counted.Sub(expected)
	return ReconciliationResult{
		Expected:       expected,
		Counted:        counted,
		Discrepancy:    discrepancy,
		Classification: ClassifyDiscrepancy(discrepancy),
	}
}

func ClassifyDiscrepancy(discrepancy Money) DiscrepancyClass {
	switch {
	case discrepancy.IsZero():
		return DiscrepancyExact
	case discrepancy.IsNegative():
		return DiscrepancyShortage
	default:
		return DiscrepancySurplus
	}
}

// RequiresConfirmation reports whether |discrepancy| exceeds the threshold
// strictly. Policy is report-only: the caller's interface layer decides what
// to do with it, the close itself is never gated here.
func RequiresConfirmation(discrepancy Money, threshold Money) bool {
	return discrepancy.Abs().GreaterThan(threshold)
}
