package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"gorm.io/gorm"
)

// LocalUser is the identity collaborator: just enough of a user to resolve
// the calling actor and authenticate logins.
type LocalUser struct {
	ID        int       `gorm:"primary_key" json:"id"`
	HubId     string    `gorm:"size:64;index;not null" json:"hub_id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('admin','manager','employee');default:'employee';not null" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var ErrorInvalidCredentials = errors.New("invalid username or password")

// Authenticate verifies the username/password pair against active users.
func Authenticate(ctx context.Context, username string, password string) (*LocalUser, error) {
	db := config.GetDB()
	var user LocalUser
	err := db.WithContext(ctx).
		Where("username = ? AND is_active = true", username).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrorInvalidCredentials
		}
		return nil, err
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, ErrorInvalidCredentials
	}
	return &user, nil
}

// FetchUser loads one user scoped to the hub.
func FetchUser(ctx context.Context, hubId string, id int) (*LocalUser, error) {
	return utils.FetchModel[LocalUser](ctx, hubId, id)
}
