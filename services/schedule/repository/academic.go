package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"

	"gorm.io/gorm"
)

type academicRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewAcademicRepository(database *gorm.DB) domain.AcademicRepo {
	return &academicRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (ar *academicRepository) ListPeriods(ctx context.Context) ([]domain.AcademicPeriod, error) {
	var periods []domain.AcademicPeriod
	if err := ar.db.WithContext(ctx).Order("start_date").Find(&periods).Error; err != nil {
		return nil, fmt.Errorf("could not list academic periods: %w", err)
	}
	return periods, nil
}

func (ar *academicRepository) GetPeriod(ctx context.Context, id int) (*domain.AcademicPeriod, error) {
	var period domain.AcademicPeriod
	err := ar.db.WithContext(ctx).First(&period, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("academic period not found")
		}
		return nil, fmt.Errorf("could not load academic period: %w", err)
	}
	return &period, nil
}

func (ar *academicRepository) CreatePeriod(ctx context.Context, period *domain.AcademicPeriod) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(period).Error
	})
}

func (ar *academicRepository) UpdatePeriod(ctx context.Context, period *domain.AcademicPeriod) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Save(period)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("academic period not found")
		}
		return nil
	})
}

func (ar *academicRepository) DeletePeriod(ctx context.Context, id int) error {
	return ar.retry.Transact(ar.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Delete(&domain.AcademicPeriod{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("academic period not found")
		}
		return nil
	})
}
