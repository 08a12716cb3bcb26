package domain

import (
	"context"
	"time"
)

// Group is a student group a schedule entry can be pinned to.
type Group struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" valid:"required~Group name is required"`
	Faculty   string    `gorm:"type:varchar(200)" json:"faculty"`
	Course    int       `json:"course"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Group) TableName() string { return "groups" }

type GroupRepo interface {
	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id int) (*Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	DeleteGroup(ctx context.Context, id int) error
}
