package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mmdatafocus/cashregister_backend/config"
)

var mutex sync.Mutex

// GetDailySequence returns the next per-calendar-day counter for T, scoped to
// the hub. day is formatted YYYYMMDD; numberColumn holds codes of the form
// <prefix>-<day>-<zero padded counter>.
//
// The counter lives in Redis (survives across instances); on a cold counter the
// current max is recovered from the database. Allocated values are checked for
// uniqueness against the DB before being handed out, so a stale Redis state
// only costs extra round trips, never a duplicate code.
func GetDailySequence[T any](ctx context.Context, hubId string, prefix string, day string, numberColumn string) (int64, error) {
	var model T
	mutex.Lock()
	defer mutex.Unlock()

	cacheKey := hubId + "-" + strings.ToLower(GetTypeName[T]()) + "-" + day + "_seq"
	var seqNo int64
	var err error
	db := config.GetDB()

	for {
		if config.SequenceRedisDisabled() {
			seqNo = 0
		} else {
			seqNo, err = config.GetRedisCounter(ctx, cacheKey)
			if err != nil {
				return 0, err
			}
		}
		// if not found in redis, recover from db
		if seqNo <= 1 {
			var dbSeq *int64
			like := fmt.Sprintf("%s-%s-%%", prefix, day)
			if err := db.WithContext(ctx).Model(&model).
				Select(fmt.Sprintf("max(cast(substring_index(%s, '-', -1) as unsigned))", numberColumn)).
				Where("hub_id = ?", hubId).
				Where(numberColumn+" LIKE ?", like).
				Scan(&dbSeq).Error; err != nil {
				return 0, err
			}
			// in case db has no records for this day
			if dbSeq == nil {
				seqNo = 0
			} else {
				seqNo = *dbSeq
			}
			seqNo++
			if !config.SequenceRedisDisabled() {
				if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
					return 0, err
				}
			}
		}
		// check if the resulting code exists in db
		code := FormatDailyCode(prefix, day, seqNo)
		err = ValidateUnique[T](ctx, hubId, numberColumn, code, 0)
		if err == nil {
			return seqNo, nil
		}
		if err != ErrorDuplicateValue {
			return 0, err
		}
		if config.SequenceRedisDisabled() {
			// DB-only mode cannot make progress if the max+1 code is taken
			// by another hub-day shape; surface the conflict.
			return 0, err
		}
	}
}

// FormatDailyCode renders <prefix>-<day>-NNNN with a 4-digit zero padded counter.
func FormatDailyCode(prefix string, day string, seqNo int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seqNo)
}

// GetTypeName returns T's bare type name.
func GetTypeName[T any]() string {
	var model T
	name := fmt.Sprintf("%T", model)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
