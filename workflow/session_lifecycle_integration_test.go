package workflow_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"github.com/mmdatafocus/cashregister_backend/workflow"
)

// End to end drawer lifecycle against real MySQL and Redis:
// open with a counted float, record signed movements, read the live balance,
// close with a counted total and check the reconciliation, then verify the
// single-open-session invariant before and after.
//
// Run (requires Docker): INTEGRATION_TESTS=1 go test ./workflow -run SessionLifecycle -v
func TestSessionLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "cashregister_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx = utils.SetHubIdInContext(ctx, "hub-1")
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUsernameInContext(ctx, "Test")

	// Defaults created on first read; drawer tracking is on by default.
	settings, err := models.GetCashRegisterSettings(ctx, "hub-1")
	if err != nil {
		t.Fatalf("GetCashRegisterSettings: %v", err)
	}
	if !settings.Enabled() {
		t.Fatalf("default settings should enable the cash register")
	}

	// 1) Open with a counted opening float.
	session, err := workflow.OpenCashSession(ctx, &models.NewCashSession{
		Denominations: models.DenominationBreakdown{"bill_50": 2},
		Notes:         "morning shift",
	})
	if err != nil {
		t.Fatalf("OpenCashSession: %v", err)
	}
	if !session.OpeningBalance.Equal(models.MustMoney("100.00")) {
		t.Fatalf("opening balance = %s, want 100", session.OpeningBalance.String())
	}
	numberPattern := regexp.MustCompile(`^CSH-\d{8}-0001$`)
	if !numberPattern.MatchString(session.SessionNumber) {
		t.Fatalf("session number %q does not match CSH-YYYYMMDD-0001", session.SessionNumber)
	}
	assertActorLockFree(t, "hub-1", 1)

	// 2) A second open for the same actor must fail.
	_, err = workflow.OpenCashSession(ctx, &models.NewCashSession{})
	if !errors.Is(err, utils.ErrorSessionAlreadyOpen) {
		t.Fatalf("second open: expected ErrorSessionAlreadyOpen, got %v", err)
	}

	// 3) Record movements against the open session.
	if _, err := workflow.RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:   models.MovementKindSale,
		Amount: models.MustMoney("50.00"),
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := workflow.RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:        models.MovementKindOut,
		Amount:      models.MustMoney("-20.00"),
		Description: "supplier payout",
	}); err != nil {
		t.Fatalf("record payout: %v", err)
	}

	// Sign mismatches are rejected, not normalized.
	_, err = workflow.RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:   models.MovementKindOut,
		Amount: models.MustMoney("5.00"),
	})
	if !errors.Is(err, utils.ErrorInvalidMovement) {
		t.Fatalf("positive out: expected ErrorInvalidMovement, got %v", err)
	}

	// Draining the drawer below zero is rejected under default settings.
	_, err = workflow.RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:   models.MovementKindOut,
		Amount: models.MustMoney("-500.00"),
	})
	if !errors.Is(err, utils.ErrorNegativeBalance) {
		t.Fatalf("overdraw: expected ErrorNegativeBalance, got %v", err)
	}

	// 4) Live balance: 100 + 50 - 20.
	open, err := workflow.GetOpenSession(ctx)
	if err != nil {
		t.Fatalf("GetOpenSession: %v", err)
	}
	if open == nil || open.ID != session.ID {
		t.Fatalf("GetOpenSession returned %+v, want session %d", open, session.ID)
	}
	balance, err := open.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if !balance.Equal(models.MustMoney("130.00")) {
		t.Fatalf("balance = %s, want 130", balance.String())
	}

	// Another user in the same hub cannot touch this session by id.
	otherCtx := utils.SetHubIdInContext(context.Background(), "hub-1")
	otherCtx = utils.SetUserIdInContext(otherCtx, 2)
	_, err = workflow.RecordCashMovement(otherCtx, &models.NewCashMovement{
		SessionId: session.ID,
		Kind:      models.MovementKindSale,
		Amount:    models.MustMoney("5.00"),
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("foreign record: expected ErrorRecordNotFound, got %v", err)
	}
	_, err = workflow.CloseCashSession(otherCtx, &models.CloseCashSession{
		SessionId:      session.ID,
		ClosingBalance: moneyPtr("130.00"),
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("foreign close: expected ErrorRecordNotFound, got %v", err)
	}

	// 5) Close with a matching counted total.
	closed, err := workflow.CloseCashSession(ctx, &models.CloseCashSession{
		Denominations: models.DenominationBreakdown{"bill_100": 1, "bill_10": 3},
		Notes:         "end of shift",
	})
	if err != nil {
		t.Fatalf("CloseCashSession: %v", err)
	}
	if closed.Reconciliation.Classification != models.DiscrepancyExact {
		t.Fatalf("classification = %s, want exact", closed.Reconciliation.Classification)
	}
	if closed.RequiresConfirmation {
		t.Fatalf("exact close should not ask for confirmation")
	}
	if closed.Session.Status != models.SessionStatusClosed || closed.Session.ClosedAt == nil {
		t.Fatalf("session not frozen: %+v", closed.Session)
	}
	assertActorLockFree(t, "hub-1", 1)

	// Registry entry is gone; the actor has no open session.
	if open, err := workflow.GetOpenSession(ctx); err != nil || open != nil {
		t.Fatalf("after close: open=%+v err=%v, want nil/nil", open, err)
	}

	// 6) Default settings demand a counted total on close.
	_, err = workflow.CloseCashSession(ctx, &models.CloseCashSession{})
	if !errors.Is(err, utils.ErrorCountRequired) {
		t.Fatalf("close without count: expected ErrorCountRequired, got %v", err)
	}

	// Closing again or recording after close fails the same way.
	_, err = workflow.CloseCashSession(ctx, &models.CloseCashSession{
		ClosingBalance: moneyPtr("130.00"),
	})
	if !errors.Is(err, utils.ErrorSessionNotOpen) {
		t.Fatalf("double close: expected ErrorSessionNotOpen, got %v", err)
	}
	_, err = workflow.RecordCashMovement(ctx, &models.NewCashMovement{
		Kind:   models.MovementKindSale,
		Amount: models.MustMoney("10.00"),
	})
	if !errors.Is(err, utils.ErrorSessionNotOpen) {
		t.Fatalf("record after close: expected ErrorSessionNotOpen, got %v", err)
	}

	// 7) Reopen with no explicit amount: the last closing balance carries over.
	second, err := workflow.OpenCashSession(ctx, &models.NewCashSession{})
	if err != nil {
		t.Fatalf("second OpenCashSession: %v", err)
	}
	if !second.OpeningBalance.Equal(models.MustMoney("130.00")) {
		t.Fatalf("second opening balance = %s, want 130 (carried over)", second.OpeningBalance.String())
	}
	if !strings.HasSuffix(second.SessionNumber, "-0002") {
		t.Fatalf("second session number %q should take the next daily sequence", second.SessionNumber)
	}

	// 8) Close over-counted: surplus past the threshold asks for confirmation.
	closed, err = workflow.CloseCashSession(ctx, &models.CloseCashSession{
		ClosingBalance: moneyPtr("150.50"),
	})
	if err != nil {
		t.Fatalf("surplus close: %v", err)
	}
	if closed.Reconciliation.Classification != models.DiscrepancySurplus {
		t.Fatalf("classification = %s, want surplus", closed.Reconciliation.Classification)
	}
	if !closed.Reconciliation.Discrepancy.Equal(models.MustMoney("20.50")) {
		t.Fatalf("discrepancy = %s, want 20.50", closed.Reconciliation.Discrepancy.String())
	}
	if !closed.RequiresConfirmation {
		t.Fatalf("20.50 over the 10.00 threshold should ask for confirmation")
	}

	// 9) Concurrent opens for one actor: exactly one wins.
	const racers = 8
	errCh := make(chan error, racers)
	for i := 0; i < racers; i++ {
		go func() {
			_, err := workflow.OpenCashSession(ctx, &models.NewCashSession{
				OpeningBalance: moneyPtr("10.00"),
			})
			errCh <- err
		}()
	}
	var wins, rejections int
	for i := 0; i < racers; i++ {
		switch err := <-errCh; {
		case err == nil:
			wins++
		case errors.Is(err, utils.ErrorSessionAlreadyOpen):
			rejections++
		default:
			t.Fatalf("concurrent open: unexpected error %v", err)
		}
	}
	if wins != 1 || rejections != racers-1 {
		t.Fatalf("concurrent opens: %d wins, %d rejections, want 1/%d", wins, rejections, racers-1)
	}
}

// assertActorLockFree checks that no pooled connection is still holding the
// actor's advisory lock after a workflow call has returned. A leaked lock
// makes the next open or close for the same actor stall in GET_LOCK.
func assertActorLockFree(t *testing.T, hubId string, userId int) {
	t.Helper()
	lockName := fmt.Sprintf("cash_session:%s:%d", hubId, userId)
	var free sql.NullInt64
	if err := config.GetDB().Raw("SELECT IS_FREE_LOCK(?)", lockName).Scan(&free).Error; err != nil {
		t.Fatalf("IS_FREE_LOCK(%s): %v", lockName, err)
	}
	if !free.Valid || free.Int64 != 1 {
		t.Fatalf("advisory lock %s is still held after the call returned", lockName)
	}
}

func moneyPtr(value string) *models.Money {
	m := models.MustMoney(value)
	return &m
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("cashregister-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("cashregister-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=cashregister_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
