package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"serveza.dev/Serveza/pkg/model"
)

// NewAPIToken generates the opaque 32-hex-char bearer credential handed to a
// user at registration.
func NewAPIToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GetUserByAPIToken resolves a bearer credential. Returns nil without error
// when the token matches nobody.
func (r *Repository) GetUserByAPIToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("api_token = ?", token).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &user, nil
}

// GetUserByEmail returns nil without error when the address is unknown.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &user, nil
}

// RegisterUser creates the account with a fresh API token. A concurrent
// registration of the same email loses on the unique index and surfaces as
// gorm.ErrDuplicatedKey.
func (r *Repository) RegisterUser(ctx context.Context, user *model.User) error {
	user.APIToken = NewAPIToken()

	result := r.DB.WithContext(ctx).Create(user)

	return result.Error
}

// SetLastEventCheck moves the notification watermark; nil resets it so the
// user sees the full feed again.
func (r *Repository) SetLastEventCheck(ctx context.Context, userID uint, at *time.Time) error {
	result := r.DB.WithContext(ctx).Model(&model.User{Model: gorm.Model{ID: userID}}).
		Update("last_event_check", at)

	return result.Error
}
