package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewNotificationRepository(database *gorm.DB) domain.NotificationRepo {
	return &notificationRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (nr *notificationRepository) AlreadySent(ctx context.Context, userID int64, lessonKey, date string) (bool, error) {
	var h domain.NotificationHistory
	err := nr.db.WithContext(ctx).
		Where("user_id = ? AND lesson_key = ? AND notification_date = ?", userID, lessonKey, date).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("could not check notification history: %w", err)
	}
	return true, nil
}

func (nr *notificationRepository) Record(ctx context.Context, h *domain.NotificationHistory) error {
	return nr.retry.Transact(nr.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(h).Error
	})
}

func (nr *notificationRepository) PruneBefore(ctx context.Context, date string) (int64, error) {
	res := nr.db.WithContext(ctx).
		Where("notification_date < ?", date).
		Delete(&domain.NotificationHistory{})
	if res.Error != nil {
		return 0, fmt.Errorf("could not prune notification history: %w", res.Error)
	}
	return res.RowsAffected, nil
}
