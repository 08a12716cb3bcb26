package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"

	"gorm.io/gorm"
)

type scheduleRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewScheduleRepository(database *gorm.DB) domain.ScheduleRepo {
	return &scheduleRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (sr *scheduleRepository) GetMetadata(ctx context.Context) (*domain.ScheduleMetadata, error) {
	var meta domain.ScheduleMetadata
	err := sr.db.WithContext(ctx).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not load schedule metadata: %w", err)
	}
	return &meta, nil
}

func (sr *scheduleRepository) SaveMetadata(ctx context.Context, meta *domain.ScheduleMetadata) error {
	return sr.retry.Transact(sr.db.WithContext(ctx), func(tx *gorm.DB) error {
		if meta.ID == 0 {
			return tx.Create(meta).Error
		}
		return tx.Save(meta).Error
	})
}

func (sr *scheduleRepository) EntriesForDay(ctx context.Context, day string, week domain.WeekType) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := sr.db.WithContext(ctx).
		Where("day_of_week = ? AND week_type = ?", day, week).
		Order("time").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not load schedule for %s/%s: %w", day, week, err)
	}
	return entries, nil
}

func (sr *scheduleRepository) EntriesOwnedBy(ctx context.Context, userID int64, day string, week domain.WeekType) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := sr.db.WithContext(ctx).
		Where("teacher_user_id = ? AND day_of_week = ? AND week_type = ?", userID, day, week).
		Order("time").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not load owned schedule: %w", err)
	}
	return entries, nil
}

func (sr *scheduleRepository) AllEntries(ctx context.Context) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := sr.db.WithContext(ctx).Preload("Group").Order("day_of_week, week_type, time").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not load schedule entries: %w", err)
	}
	return entries, nil
}

func (sr *scheduleRepository) GetEntry(ctx context.Context, id int) (*domain.ScheduleEntry, error) {
	var entry domain.ScheduleEntry
	err := sr.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule entry not found")
		}
		return nil, fmt.Errorf("could not load schedule entry: %w", err)
	}
	return &entry, nil
}

func (sr *scheduleRepository) CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	return sr.retry.Transact(sr.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	})
}

func (sr *scheduleRepository) UpdateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	return sr.retry.Transact(sr.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Save(entry)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("schedule entry not found")
		}
		return nil
	})
}

func (sr *scheduleRepository) DeleteEntry(ctx context.Context, id int) error {
	return sr.retry.Transact(sr.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Delete(&domain.ScheduleEntry{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("schedule entry not found")
		}
		return nil
	})
}

func (sr *scheduleRepository) TeacherWorkload(ctx context.Context) ([]domain.TeacherWorkload, error) {
	var rows []struct {
		Teacher  string
		WeekType domain.WeekType
		Count    int
	}
	err := sr.db.WithContext(ctx).
		Model(&domain.ScheduleEntry{}).
		Select("teacher, week_type, count(*) as count").
		Group("teacher, week_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not aggregate teacher workload: %w", err)
	}

	byTeacher := make(map[string]*domain.TeacherWorkload)
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		w, ok := byTeacher[row.Teacher]
		if !ok {
			w = &domain.TeacherWorkload{Teacher: row.Teacher}
			byTeacher[row.Teacher] = w
			order = append(order, row.Teacher)
		}
		if row.WeekType == domain.WeekDenominator {
			w.Denominator += row.Count
		} else {
			w.Numerator += row.Count
		}
		w.Total += row.Count
	}

	result := make([]domain.TeacherWorkload, 0, len(order))
	for _, teacher := range order {
		result = append(result, *byTeacher[teacher])
	}
	return result, nil
}
