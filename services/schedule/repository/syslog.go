package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"
	"time"

	"gorm.io/gorm"
)

type syslogRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewSyslogRepository(database *gorm.DB) domain.SyslogRepo {
	return &syslogRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (lr *syslogRepository) InsertLog(ctx context.Context, entry *domain.LogEntry) error {
	return lr.db.WithContext(ctx).Create(entry).Error
}

func (lr *syslogRepository) ListLogs(ctx context.Context, level, search string, page, perPage int) ([]domain.LogEntry, int64, error) {
	query := lr.db.WithContext(ctx).Model(&domain.LogEntry{}).Order("timestamp desc")
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if search != "" {
		query = query.Where("message LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("could not count logs: %w", err)
	}

	if page < 1 {
		page = 1
	}
	var entries []domain.LogEntry
	err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not list logs: %w", err)
	}
	return entries, total, nil
}

func (lr *syslogRepository) CleanOldLogs(ctx context.Context, olderThan time.Time) (int64, error) {
	res := lr.db.WithContext(ctx).Where("timestamp < ?", olderThan).Delete(&domain.LogEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("could not clean old logs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (lr *syslogRepository) CommandStats(ctx context.Context, limit int) ([]domain.CommandStat, error) {
	var stats []domain.CommandStat
	err := lr.db.WithContext(ctx).Model(&domain.LogEntry{}).
		Select("command, count(id) as count").
		Where("command IS NOT NULL").
		Group("command").
		Order("count desc").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("could not aggregate command stats: %w", err)
	}
	return stats, nil
}

func (lr *syslogRepository) DailyActivity(ctx context.Context, since time.Time) ([]domain.DailyActivity, error) {
	var activity []domain.DailyActivity
	err := lr.db.WithContext(ctx).Model(&domain.LogEntry{}).
		Select("date(timestamp) as date, count(id) as count").
		Where("timestamp >= ?", since).
		Group("date(timestamp)").
		Order("date").
		Scan(&activity).Error
	if err != nil {
		return nil, fmt.Errorf("could not aggregate daily activity: %w", err)
	}
	return activity, nil
}

func (lr *syslogRepository) GetConfig(ctx context.Context, key string) (*domain.BotConfig, error) {
	var cfg domain.BotConfig
	err := lr.db.WithContext(ctx).Where("key = ?", key).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not load config %q: %w", key, err)
	}
	return &cfg, nil
}

func (lr *syslogRepository) SetConfig(ctx context.Context, key, value, description string) error {
	return lr.retry.Transact(lr.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing domain.BotConfig
		err := tx.Where("key = ?", key).First(&existing).Error
		if err == nil {
			existing.Value = value
			if description != "" {
				existing.Description = description
			}
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&domain.BotConfig{Key: key, Value: value, Description: description}).Error
	})
}

func (lr *syslogRepository) ListConfig(ctx context.Context) ([]domain.BotConfig, error) {
	var configs []domain.BotConfig
	if err := lr.db.WithContext(ctx).Order("key").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("could not list config: %w", err)
	}
	return configs, nil
}
