package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"
	"time"

	"gorm.io/gorm"
)

type pollRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewPollRepository(database *gorm.DB) domain.PollRepo {
	return &pollRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (pr *pollRepository) CreatePoll(ctx context.Context, poll *domain.Poll) error {
	return pr.retry.Transact(pr.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(poll).Error
	})
}

func (pr *pollRepository) GetPoll(ctx context.Context, id int) (*domain.Poll, error) {
	var poll domain.Poll
	err := pr.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("option_order") }).
		First(&poll, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("poll not found")
		}
		return nil, fmt.Errorf("could not load poll: %w", err)
	}
	return &poll, nil
}

func (pr *pollRepository) ListActive(ctx context.Context) ([]domain.Poll, error) {
	var polls []domain.Poll
	err := pr.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("option_order") }).
		Where("is_closed = ?", false).
		Order("created_at desc").
		Find(&polls).Error
	if err != nil {
		return nil, fmt.Errorf("could not list active polls: %w", err)
	}
	return polls, nil
}

func (pr *pollRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Poll, error) {
	var polls []domain.Poll
	err := pr.db.WithContext(ctx).
		Where("is_closed = ? AND expires_at IS NOT NULL AND expires_at <= ?", false, now).
		Find(&polls).Error
	if err != nil {
		return nil, fmt.Errorf("could not list expired polls: %w", err)
	}
	return polls, nil
}

func (pr *pollRepository) UpdatePoll(ctx context.Context, poll *domain.Poll) error {
	return pr.retry.Transact(pr.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Omit("Options").Save(poll).Error
	})
}

func (pr *pollRepository) ReplaceOptions(ctx context.Context, pollID int, options []domain.PollOption) error {
	return pr.retry.Transact(pr.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", pollID).Delete(&domain.PollOption{}).Error; err != nil {
			return err
		}
		// Votes reference dropped options; clear them with the options.
		if err := tx.Where("poll_id = ?", pollID).Delete(&domain.PollResponse{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].PollID = pollID
		}
		if len(options) == 0 {
			return nil
		}
		return tx.Create(&options).Error
	})
}

func (pr *pollRepository) ClosePoll(ctx context.Context, id int) error {
	return pr.retry.Transact(pr.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Model(&domain.Poll{}).Where("id = ?", id).Update("is_closed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("poll not found")
		}
		return nil
	})
}

func (pr *pollRepository) SaveResponse(ctx context.Context, resp *domain.PollResponse) error {
	return pr.retry.Transact(pr.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing domain.PollResponse
		err := tx.Where("poll_id = ? AND user_id = ?", resp.PollID, resp.UserID).First(&existing).Error
		if err == nil {
			existing.OptionID = resp.OptionID
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(resp).Error
	})
}

func (pr *pollRepository) CountResponses(ctx context.Context, pollID int) (int, error) {
	var count int64
	err := pr.db.WithContext(ctx).Model(&domain.PollResponse{}).
		Where("poll_id = ?", pollID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count responses: %w", err)
	}
	return int(count), nil
}

func (pr *pollRepository) ResponsesByOption(ctx context.Context, pollID int) (map[int]int, error) {
	var rows []struct {
		OptionID int
		Count    int
	}
	err := pr.db.WithContext(ctx).Model(&domain.PollResponse{}).
		Select("option_id, count(*) as count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not aggregate responses: %w", err)
	}

	result := make(map[int]int, len(rows))
	for _, row := range rows {
		result[row.OptionID] = row.Count
	}
	return result, nil
}
