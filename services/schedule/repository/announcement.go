package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"
	"time"

	"gorm.io/gorm"
)

type announcementRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewAnnouncementRepository(database *gorm.DB) domain.AnnouncementRepo {
	return &announcementRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (ar *announcementRepository) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	var items []domain.Announcement
	if err := ar.db.WithContext(ctx).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("could not list announcements: %w", err)
	}
	return items, nil
}

func (ar *announcementRepository) GetAnnouncement(ctx context.Context, id int) (*domain.Announcement, error) {
	var item domain.Announcement
	err := ar.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("announcement not found")
		}
		return nil, fmt.Errorf("could not load announcement: %w", err)
	}
	return &item, nil
}

func (ar *announcementRepository) GetActive(ctx context.Context) (*domain.Announcement, error) {
	var item domain.Announcement
	err := ar.db.WithContext(ctx).Where("is_active = ?", true).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not load active announcement: %w", err)
	}
	return &item, nil
}

func (ar *announcementRepository) CreateAnnouncement(ctx context.Context, a *domain.Announcement) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		if a.IsActive {
			if err := tx.Model(&domain.Announcement{}).Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

func (ar *announcementRepository) UpdateAnnouncement(ctx context.Context, a *domain.Announcement) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Save(a)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("announcement not found")
		}
		return nil
	})
}

func (ar *announcementRepository) DeleteAnnouncement(ctx context.Context, id int) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Announcement{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("announcement not found")
		}
		return nil
	})
}

func (ar *announcementRepository) DeactivateAll(ctx context.Context) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Model(&domain.Announcement{}).Where("is_active = ?", true).
			Update("is_active", false).Error
	})
}

func (ar *announcementRepository) Activate(ctx context.Context, id int) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Announcement{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.Announcement{}).Where("id = ?", id).Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("announcement not found")
		}
		return nil
	})
}

func (ar *announcementRepository) MarkSent(ctx context.Context, id, recipients int) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		now := time.Now()
		return tx.Model(&domain.Announcement{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"sent_at":         &now,
				"recipient_count": recipients,
			}).Error
	})
}
