package repository

import (
	"context"
	"errors"
	"fmt"
	"teachhub/domain"

	"gorm.io/gorm"
)

type groupRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewGroupRepository(database *gorm.DB) domain.GroupRepo {
	return &groupRepository{
		db:    database,
		retry: DefaultRetryPolicy(),
	}
}

func (gr *groupRepository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := gr.db.WithContext(ctx).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("could not list groups: %w", err)
	}
	return groups, nil
}

func (gr *groupRepository) GetGroup(ctx context.Context, id int) (*domain.Group, error) {
	var group domain.Group
	err := gr.db.WithContext(ctx).First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("could not load group: %w", err)
	}
	return &group, nil
}

func (gr *groupRepository) CreateGroup(ctx context.Context, group *domain.Group) error {
	return gr.retry.Transact(gr.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(group).Error
	})
}

func (gr *groupRepository) UpdateGroup(ctx context.Context, group *domain.Group) error {
	return gr.retry.Transact(gr.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Save(group)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("group not found")
		}
		return nil
	})
}

func (gr *groupRepository) DeleteGroup(ctx context.Context, id int) error {
	return gr.retry.Transact(gr.db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("group not found")
		}
		return nil
	})
}
