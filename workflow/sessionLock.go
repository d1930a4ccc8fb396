package workflow

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AcquireActorSessionLock serializes open/close per actor across instances
// using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so the lock is taken on a dedicated
// connection checked out of the pool rather than on the caller's transaction.
// The returned release func must run after the transaction finishes; it closes
// the connection, which drops the lock server-side even when RELEASE_LOCK
// itself fails.
func AcquireActorSessionLock(ctx context.Context, db *gorm.DB, hubId string, userId int) (func(), error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	lockName := fmt.Sprintf("cash_session:%s:%d", hubId, userId)
	var ok int
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 30)", lockName).Scan(&ok); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if ok != 1 {
		_ = conn.Close()
		return nil, fmt.Errorf("could not acquire session lock for hub=%s user=%d", hubId, userId)
	}
	release := func() {
		var freed int
		_ = conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", lockName).Scan(&freed)
		_ = conn.Close()
	}
	return release, nil
}
