package models_test

import (
	"errors"
	"testing"

	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

func movement(kind models.MovementKind, amount string) models.CashMovement {
	return models.CashMovement{Kind: kind, Amount: models.MustMoney(amount)}
}

func TestLedgerNetTotal(t *testing.T) {
	ledger := models.MovementLedger{
		movement(models.MovementKindSale, "50.00"),
		movement(models.MovementKindIn, "20.00"),
		movement(models.MovementKindOut, "-30.00"),
		movement(models.MovementKindRefund, "-5.00"),
	}
	if got := ledger.NetTotal(); !got.Equal(models.MustMoney("35.00")) {
		t.Fatalf("NetTotal = %s, want 35", got.String())
	}
	if got := ledger.CurrentBalance(models.MustMoney("100.00")); !got.Equal(models.MustMoney("135.00")) {
		t.Fatalf("CurrentBalance = %s, want 135", got.String())
	}
}

func TestLedgerNetTotalOrderIndependent(t *testing.T) {
	forward := models.MovementLedger{
		movement(models.MovementKindSale, "10.00"),
		movement(models.MovementKindOut, "-4.50"),
		movement(models.MovementKindSale, "3.25"),
	}
	reversed := models.MovementLedger{forward[2], forward[1], forward[0]}
	if !forward.NetTotal().Equal(reversed.NetTotal()) {
		t.Fatalf("net total depends on order: %s vs %s",
			forward.NetTotal().String(), reversed.NetTotal().String())
	}
}

func TestLedgerTotalByKind(t *testing.T) {
	ledger := models.MovementLedger{
		movement(models.MovementKindSale, "50.00"),
		movement(models.MovementKindSale, "25.00"),
		movement(models.MovementKindOut, "-30.00"),
	}
	if got := ledger.TotalByKind(models.MovementKindSale); !got.Equal(models.MustMoney("75.00")) {
		t.Fatalf("sales total = %s, want 75", got.String())
	}
	if got := ledger.TotalByKind(models.MovementKindOut); !got.Equal(models.MustMoney("-30.00")) {
		t.Fatalf("out total = %s, want -30", got.String())
	}
	if got := ledger.TotalByKind(models.MovementKindRefund); !got.IsZero() {
		t.Fatalf("refund total = %s, want 0", got.String())
	}
}

func TestValidateMovementAmount(t *testing.T) {
	cases := []struct {
		kind   models.MovementKind
		amount string
		ok     bool
	}{
		{models.MovementKindSale, "50.00", true},
		{models.MovementKindIn, "0.01", true},
		{models.MovementKindOut, "-20.00", true},
		{models.MovementKindRefund, "-5.00", true},

		{models.MovementKindSale, "-50.00", false},
		{models.MovementKindIn, "-0.01", false},
		{models.MovementKindOut, "20.00", false},
		{models.MovementKindRefund, "5.00", false},
		{models.MovementKindSale, "0", false},
		{models.MovementKindOut, "0", false},
		{models.MovementKind("transfer"), "10.00", false},
	}
	for _, c := range cases {
		err := models.ValidateMovementAmount(c.kind, models.MustMoney(c.amount))
		if c.ok && err != nil {
			t.Errorf("ValidateMovementAmount(%s, %s): unexpected error %v", c.kind, c.amount, err)
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ValidateMovementAmount(%s, %s): expected error", c.kind, c.amount)
			} else if !errors.Is(err, utils.ErrorInvalidMovement) {
				t.Errorf("ValidateMovementAmount(%s, %s): error %v is not ErrorInvalidMovement", c.kind, c.amount, err)
			}
		}
	}
}
