package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"github.com/mmdatafocus/cashregister_backend/workflow"
)

// ResolveCashLedger without a hub on the context degrades to the typed
// "not configured" ledger instead of failing the sale. Pure path, no DB.
func TestResolveCashLedgerWithoutHub(t *testing.T) {
	ledger, err := workflow.ResolveCashLedger(context.Background())
	if err != nil {
		t.Fatalf("ResolveCashLedger: %v", err)
	}
	if _, err := ledger.RecordSalePayment(context.Background(), "INV-001", models.MustMoney("25.00")); !errors.Is(err, utils.ErrorLedgerNotConfigured) {
		t.Fatalf("expected ErrorLedgerNotConfigured, got %v", err)
	}
	if _, err := ledger.RecordSaleRefund(context.Background(), "INV-001", models.MustMoney("25.00")); !errors.Is(err, utils.ErrorLedgerNotConfigured) {
		t.Fatalf("expected ErrorLedgerNotConfigured, got %v", err)
	}
}

func TestSalesMirroredIntoDrawer(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "cashregister_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx = utils.SetHubIdInContext(ctx, "hub-sales")
	ctx = utils.SetUserIdInContext(ctx, 2)
	ctx = utils.SetUsernameInContext(ctx, "Cashier")

	ledger, err := workflow.ResolveCashLedger(ctx)
	if err != nil {
		t.Fatalf("ResolveCashLedger: %v", err)
	}

	// A sale with no open session is a typed state, not a crash.
	_, err = ledger.RecordSalePayment(ctx, "INV-100", models.MustMoney("40.00"))
	if !errors.Is(err, utils.ErrorSessionNotOpen) {
		t.Fatalf("sale without session: expected ErrorSessionNotOpen, got %v", err)
	}

	session, err := workflow.OpenCashSession(ctx, &models.NewCashSession{
		OpeningBalance: moneyPtr("60.00"),
	})
	if err != nil {
		t.Fatalf("OpenCashSession: %v", err)
	}

	sale, err := ledger.RecordSalePayment(ctx, "INV-100", models.MustMoney("40.00"))
	if err != nil {
		t.Fatalf("RecordSalePayment: %v", err)
	}
	if sale.Kind != models.MovementKindSale || !sale.Amount.Equal(models.MustMoney("40.00")) {
		t.Fatalf("unexpected sale movement: %+v", sale)
	}
	if sale.SaleReference != "INV-100" {
		t.Fatalf("sale reference = %q, want INV-100", sale.SaleReference)
	}

	refund, err := ledger.RecordSaleRefund(ctx, "INV-100", models.MustMoney("15.00"))
	if err != nil {
		t.Fatalf("RecordSaleRefund: %v", err)
	}
	if refund.Kind != models.MovementKindRefund || !refund.Amount.Equal(models.MustMoney("-15.00")) {
		t.Fatalf("unexpected refund movement: %+v", refund)
	}

	// Refunds carry the magnitude; the sign is owned here.
	if _, err := ledger.RecordSaleRefund(ctx, "INV-100", models.MustMoney("-15.00")); !errors.Is(err, utils.ErrorInvalidMovement) {
		t.Fatalf("negative refund input: expected ErrorInvalidMovement, got %v", err)
	}

	balance, err := session.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if !balance.Equal(models.MustMoney("85.00")) {
		t.Fatalf("balance = %s, want 85 (60 + 40 - 15)", balance.String())
	}
}
