package domain

import (
	"context"
	"time"
)

const (
	LogLevelInfo     = "INFO"
	LogLevelWarning  = "WARNING"
	LogLevelError    = "ERROR"
	LogLevelSecurity = "SECURITY"
)

// LogEntry is a structured log row persisted alongside the file sink so the
// admin panel can filter and page through history.
type LogEntry struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Level     string    `gorm:"type:varchar(20);not null;index" json:"level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	UserID    *int64    `gorm:"index" json:"user_id,omitempty"`
	Command   *string   `gorm:"type:varchar(100)" json:"command,omitempty"`
}

func (LogEntry) TableName() string { return "logs" }

// BotConfig is a key/value runtime setting editable from the admin panel.
type BotConfig struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BotConfig) TableName() string { return "bot_config" }

type CommandStat struct {
	Command string `json:"command"`
	Count   int    `json:"count"`
}

type DailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type SyslogRepo interface {
	InsertLog(ctx context.Context, entry *LogEntry) error
	ListLogs(ctx context.Context, level, search string, page, perPage int) ([]LogEntry, int64, error)
	CleanOldLogs(ctx context.Context, olderThan time.Time) (int64, error)
	CommandStats(ctx context.Context, limit int) ([]CommandStat, error)
	DailyActivity(ctx context.Context, since time.Time) ([]DailyActivity, error)

	GetConfig(ctx context.Context, key string) (*BotConfig, error)
	SetConfig(ctx context.Context, key, value, description string) error
	ListConfig(ctx context.Context) ([]BotConfig, error)
}
