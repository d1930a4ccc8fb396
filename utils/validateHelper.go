package utils

import (
	"context"
	"reflect"

	"github.com/mmdatafocus/cashregister_backend/config"
)

// check if id exists, using ctx's hub_id in WHERE, return RecordNotFound Error
func ValidateResourceId[T any](ctx context.Context, hubId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, hubId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

func ValidateUnique[T any](ctx context.Context, hubId string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, hubId, column+" = ?", value)
	} else {
		var model T
		db := config.GetDB()
		err = db.WithContext(ctx).Model(&model).
			Where("hub_id = ?", hubId).
			Where(column+" = ?", value).
			Where("id != ?", exceptId).
			Count(&count).Error
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrorDuplicateValue
	}
	return nil
}

func ResourceCountWhere[T any](ctx context.Context, hubId string, cond string, values ...interface{}) (int64, error) {
	var model T
	var count int64
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&model).
		Where("hub_id = ?", hubId).
		Where(cond, values...).
		Count(&count).Error
	return count, err
}
