package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CashRegisterSettings is the per-hub module configuration. Workflows receive
// one loaded value and never re-read it mid-operation.
type CashRegisterSettings struct {
	ID                    int       `gorm:"primary_key" json:"id"`
	HubId                 string    `gorm:"size:64;uniqueIndex;not null" json:"hub_id"`
	EnableCashRegister    *bool     `gorm:"not null;default:true" json:"enable_cash_register"`
	RequireOpeningBalance *bool     `gorm:"not null;default:false" json:"require_opening_balance"`
	RequireClosingBalance *bool     `gorm:"not null;default:true" json:"require_closing_balance"`
	AllowNegativeBalance  *bool     `gorm:"not null;default:false" json:"allow_negative_balance"`
	ConfirmationThreshold Money     `gorm:"type:decimal(12,2);not null" json:"confirmation_threshold"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCashRegisterSettings struct {
	EnableCashRegister    *bool  `json:"enable_cash_register" binding:"required"`
	RequireOpeningBalance *bool  `json:"require_opening_balance" binding:"required"`
	RequireClosingBalance *bool  `json:"require_closing_balance" binding:"required"`
	AllowNegativeBalance  *bool  `json:"allow_negative_balance" binding:"required"`
	ConfirmationThreshold *Money `json:"confirmation_threshold"`
}

func (s *CashRegisterSettings) Enabled() bool {
	return s.EnableCashRegister == nil || *s.EnableCashRegister
}

func (s *CashRegisterSettings) OpeningCountRequired() bool {
	return s.RequireOpeningBalance != nil && *s.RequireOpeningBalance
}

func (s *CashRegisterSettings) ClosingCountRequired() bool {
	return s.RequireClosingBalance != nil && *s.RequireClosingBalance
}

func (s *CashRegisterSettings) NegativeBalanceAllowed() bool {
	return s.AllowNegativeBalance != nil && *s.AllowNegativeBalance
}

func defaultCashRegisterSettings(hubId string) CashRegisterSettings {
	return CashRegisterSettings{
		HubId:                 hubId,
		EnableCashRegister:    utils.NewTrue(),
		RequireOpeningBalance: utils.NewFalse(),
		RequireClosingBalance: utils.NewTrue(),
		AllowNegativeBalance:  utils.NewFalse(),
		ConfirmationThreshold: DefaultConfirmationThreshold(),
	}
}

func settingsCacheKey(hubId string) string {
	return "CashRegisterSettings:" + hubId
}

// GetCashRegisterSettings returns the hub's settings, creating the default row
// on first use. Reads go through the Redis cache when available.
func GetCashRegisterSettings(ctx context.Context, hubId string) (*CashRegisterSettings, error) {
	var cached CashRegisterSettings
	ok, err := config.GetRedisObject(settingsCacheKey(hubId), &cached)
	if err == nil && ok {
		return &cached, nil
	}

	db := config.GetDB()
	var settings CashRegisterSettings
	err = db.WithContext(ctx).Where("hub_id = ?", hubId).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = defaultCashRegisterSettings(hubId)
		// another instance may win the get-or-create race; reread on conflict
		if cerr := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; cerr != nil {
			return nil, cerr
		}
		if settings.ID == 0 {
			if rerr := db.WithContext(ctx).Where("hub_id = ?", hubId).First(&settings).Error; rerr != nil {
				return nil, rerr
			}
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	_ = config.SetRedisObject(settingsCacheKey(hubId), &settings, 10*time.Minute)
	return &settings, nil
}

// UpdateCashRegisterSettings replaces the hub's settings and drops the cache.
func UpdateCashRegisterSettings(ctx context.Context, input *NewCashRegisterSettings) (*CashRegisterSettings, error) {
	hubId, ok := utils.GetHubIdFromContext(ctx)
	if !ok || hubId == "" {
		return nil, utils.ErrorRecordNotFound
	}

	settings, err := GetCashRegisterSettings(ctx, hubId)
	if err != nil {
		return nil, err
	}

	threshold := settings.ConfirmationThreshold
	if input.ConfirmationThreshold != nil {
		if err := input.ConfirmationThreshold.Validate(); err != nil {
			return nil, err
		}
		threshold = *input.ConfirmationThreshold
	}

	db := config.GetDB()
	updates := CashRegisterSettings{
		EnableCashRegister:    input.EnableCashRegister,
		RequireOpeningBalance: input.RequireOpeningBalance,
		RequireClosingBalance: input.RequireClosingBalance,
		AllowNegativeBalance:  input.AllowNegativeBalance,
		ConfirmationThreshold: threshold,
	}
	err = db.WithContext(ctx).Model(&CashRegisterSettings{}).
		Where("hub_id = ?", hubId).
		Select("EnableCashRegister", "RequireOpeningBalance", "RequireClosingBalance", "AllowNegativeBalance", "ConfirmationThreshold").
		Updates(updates).Error
	if err != nil {
		return nil, err
	}

	_ = config.RemoveRedisKey(settingsCacheKey(hubId))
	return GetCashRegisterSettings(ctx, hubId)
}
