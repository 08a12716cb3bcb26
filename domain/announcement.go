package domain

import (
	"context"
	"time"
)

const (
	PriorityNormal    = "normal"
	PriorityImportant = "important"
	PriorityUrgent    = "urgent"
)

// Announcement. At most one is active at a time; activating or creating one
// deactivates the rest.
type Announcement struct {
	ID             int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Content        string     `gorm:"type:text;not null" json:"content" valid:"required~Content is required"`
	AuthorID       int64      `gorm:"not null" json:"author_id"`
	AuthorUsername string     `gorm:"type:varchar(100)" json:"author_username"`
	Priority       string     `gorm:"type:varchar(20);default:normal" json:"priority"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	RecipientCount int        `gorm:"default:0" json:"recipient_count"`
}

func (Announcement) TableName() string { return "announcements" }

type AnnouncementRepo interface {
	ListAnnouncements(ctx context.Context) ([]Announcement, error)
	GetAnnouncement(ctx context.Context, id int) (*Announcement, error)
	GetActive(ctx context.Context) (*Announcement, error)
	CreateAnnouncement(ctx context.Context, a *Announcement) error
	UpdateAnnouncement(ctx context.Context, a *Announcement) error
	DeleteAnnouncement(ctx context.Context, id int) error
	DeactivateAll(ctx context.Context) error
	Activate(ctx context.Context, id int) error
	MarkSent(ctx context.Context, id, recipients int) error
}

type AnnouncementUseCase interface {
	List(ctx context.Context) ([]Announcement, error)
	Active(ctx context.Context) (*Announcement, error)
	Create(ctx context.Context, content string, authorID int64, authorUsername, priority string) (*Announcement, error)
	Update(ctx context.Context, id int, content, priority string) error
	Delete(ctx context.Context, id int) error
	Activate(ctx context.Context, id int) error
	Broadcast(ctx context.Context, id int) (sent int, err error)
	FormatActive(ctx context.Context) (string, error)
}
