package config

import (
	"os"
	"strings"
)

// SequenceRedisDisabled forces daily session-number allocation to use the
// database max() fallback instead of the Redis counter. Useful for single
// instance deployments that run without Redis.
//
// Set via env:
// - CASH_SEQUENCE_REDIS_DISABLED=true
func SequenceRedisDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("CASH_SEQUENCE_REDIS_DISABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// SessionLockViaRedis additionally serializes open/close per actor with a
// redislock lease on top of the MySQL advisory lock. The advisory lock is
// authoritative; the Redis lease only short-circuits contention across
// instances before a DB connection is held.
//
// Set via env:
// - CASH_SESSION_REDIS_LOCK=true
func SessionLockViaRedis() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("CASH_SESSION_REDIS_LOCK")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
