package domain

import (
	"context"
	"time"
)

// NotificationHistory is an append-only idempotency ledger: at most one row
// per (user, lesson key, date). Rows older than 7 days are pruned.
type NotificationHistory struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int64     `gorm:"not null;index" json:"user_id"`
	LessonKey        string    `gorm:"type:varchar(500);not null;index" json:"lesson_key"`
	SentAt           time.Time `gorm:"autoCreateTime;index" json:"sent_at"`
	NotificationDate string    `gorm:"type:varchar(20);index" json:"notification_date"`
}

func (NotificationHistory) TableName() string { return "notification_history" }

type NotificationRepo interface {
	AlreadySent(ctx context.Context, userID int64, lessonKey, date string) (bool, error)
	Record(ctx context.Context, h *NotificationHistory) error
	PruneBefore(ctx context.Context, date string) (int64, error)
}

// Sender delivers one HTML-formatted chat message. The Telegram transport
// implements it; tests substitute a fake.
type Sender interface {
	SendHTML(chatID int64, text string) error
}
