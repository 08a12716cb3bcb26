package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewUserRepository(database *gorm.DB) domain.UserRepo {
	return &userRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (ur *userRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	err := ur.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not load user %d: %w", userID, err)
	}
	return &user, nil
}

func (ur *userRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := ur.db.WithContext(ctx).Order("approved_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	return users, nil
}

func (ur *userRepository) ListSubscribed(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := ur.db.WithContext(ctx).Where("notifications_enabled = ?", true).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("could not list subscribed users: %w", err)
	}
	return users, nil
}

func (ur *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return ur.retry.Transact(ur.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing domain.User
		err := tx.Where("user_id = ?", user.UserID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("user %d already exists", user.UserID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(user).Error
	})
}

func (ur *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	return ur.retry.Transact(ur.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user not found")
		}
		return nil
	})
}

func (ur *userRepository) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	return ur.retry.Transact(ur.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).
			Where("user_id = ?", userID).
			Update("notifications_enabled", enabled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user not found")
		}
		return nil
	})
}

func (ur *userRepository) GetPending(ctx context.Context, userID int64) (*domain.PendingRequest, error) {
	var req domain.PendingRequest
	err := ur.db.WithContext(ctx).Where("user_id = ?", userID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not load pending request: %w", err)
	}
	return &req, nil
}

func (ur *userRepository) ListPending(ctx context.Context) ([]domain.PendingRequest, error) {
	var requests []domain.PendingRequest
	if err := ur.db.WithContext(ctx).Order("timestamp").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("could not list pending requests: %w", err)
	}
	return requests, nil
}

func (ur *userRepository) CreatePending(ctx context.Context, req *domain.PendingRequest) error {
	return ur.retry.Transact(ur.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing domain.PendingRequest
		err := tx.Where("user_id = ?", req.UserID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("request already pending")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(req).Error
	})
}

func (ur *userRepository) DeletePending(ctx context.Context, userID int64) error {
	return ur.retry.Transact(ur.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&domain.PendingRequest{}).Error
	})
}

func (ur *userRepository) FindAdminByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	var account domain.AdminAccount
	err := ur.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account not found")
		}
		return nil, fmt.Errorf("could not load account: %w", err)
	}
	return &account, nil
}
