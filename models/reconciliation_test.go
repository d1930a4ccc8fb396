package models_test

import (
	"testing"

	"github.com/mmdatafocus/cashregister_backend/models"
)

func TestReconcileExact(t *testing.T) {
	ledger := models.MovementLedger{
		movement(models.MovementKindSale, "50.00"),
		movement(models.MovementKindOut, "-20.00"),
	}
	result := models.Reconcile(models.MustMoney("100.00"), ledger, models.MustMoney("130.00"))

	if !result.Expected.Equal(models.MustMoney("130.00")) {
		t.Fatalf("expected = %s, want 130", result.Expected.String())
	}
	if !result.Discrepancy.IsZero() {
		t.Fatalf("discrepancy = %s, want 0", result.Discrepancy.String())
	}
	if result.Classification != models.DiscrepancyExact {
		t.Fatalf("classification = %s, want exact", result.Classification)
	}
}

func TestReconcileSurplusAndShortage(t *testing.T) {
	opening := models.MustMoney("100.00")
	var ledger models.MovementLedger

	surplus := models.Reconcile(opening, ledger, models.MustMoney("105.00"))
	if surplus.Classification != models.DiscrepancySurplus {
		t.Fatalf("classification = %s, want surplus", surplus.Classification)
	}
	if !surplus.Discrepancy.Equal(models.MustMoney("5.00")) {
		t.Fatalf("discrepancy = %s, want 5", surplus.Discrepancy.String())
	}

	shortage := models.Reconcile(opening, ledger, models.MustMoney("92.50"))
	if shortage.Classification != models.DiscrepancyShortage {
		t.Fatalf("classification = %s, want shortage", shortage.Classification)
	}
	if !shortage.Discrepancy.Equal(models.MustMoney("-7.50")) {
		t.Fatalf("discrepancy = %s, want -7.50", shortage.Discrepancy.String())
	}
}

func TestRequiresConfirmationIsStrict(t *testing.T) {
	threshold := models.DefaultConfirmationThreshold()

	cases := []struct {
		discrepancy string
		want        bool
	}{
		{"0", false},
		{"10.00", false},  // exactly at the threshold does not trigger
		{"-10.00", false},
		{"10.01", true},
		{"-10.01", true},
		{"250.00", true},
	}
	for _, c := range cases {
		got := models.RequiresConfirmation(models.MustMoney(c.discrepancy), threshold)
		if got != c.want {
			t.Errorf("RequiresConfirmation(%s) = %v, want %v", c.discrepancy, got, c.want)
		}
	}
}
