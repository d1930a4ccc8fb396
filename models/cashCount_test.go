package models_test

import (
	"errors"
	"testing"

	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

func TestDenominationTotal(t *testing.T) {
	breakdown := models.DenominationBreakdown{
		"bill_100": 2,
		"coin_1":   5,
	}
	total, err := breakdown.Total()
	if err != nil {
		t.Fatal(err)
	}
	if !total.Equal(models.MustMoney("205.00")) {
		t.Fatalf("total = %s, want 205", total.String())
	}
}

func TestDenominationTotalFractionalFace(t *testing.T) {
	breakdown := models.DenominationBreakdown{
		"coin_0.50": 3,
		"coin_0.25": 2,
	}
	total, err := breakdown.Total()
	if err != nil {
		t.Fatal(err)
	}
	if !total.Equal(models.MustMoney("2.00")) {
		t.Fatalf("total = %s, want 2", total.String())
	}
}

func TestDenominationTotalRejectsBadInput(t *testing.T) {
	cases := []models.DenominationBreakdown{
		{"bill_100": -1},
		{"bill_abc": 2},
		{"bill_0": 2},
		{"bill_-5": 2},
	}
	for _, breakdown := range cases {
		if _, err := breakdown.Total(); !errors.Is(err, utils.ErrorInvalidAmount) {
			t.Errorf("Total(%v): expected ErrorInvalidAmount, got %v", breakdown, err)
		}
	}
}

func TestFaceValue(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"100", "100"},
		{"bill_100", "100"},
		{"coin_0.50", "0.5"},
		{"note_5000", "5000"},
	}
	for _, c := range cases {
		face, err := models.FaceValue(c.label)
		if err != nil {
			t.Errorf("FaceValue(%q): %v", c.label, err)
			continue
		}
		if face.String() != c.want {
			t.Errorf("FaceValue(%q) = %s, want %s", c.label, face.String(), c.want)
		}
	}
}

// BuildCashCount always recomputes the total; a caller-supplied total has no
// way in.
func TestBuildCashCountRecomputesTotal(t *testing.T) {
	count, err := models.BuildCashCount("hub-1", 7, models.CountPhaseClosing,
		models.DenominationBreakdown{"bill_50": 4}, "end of shift", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !count.Total.Equal(models.MustMoney("200.00")) {
		t.Fatalf("total = %s, want 200", count.Total.String())
	}
	if count.Phase != models.CountPhaseClosing || count.SessionId != 7 {
		t.Fatalf("unexpected count row: %+v", count)
	}
}
