package config

import (
	"fmt"
	"strings"
	"teachhub/domain"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// BootDB opens the database, runs migrations and seeds defaults. The driver
// is picked from the DSN: postgres URLs/keyword strings go to the postgres
// driver, everything else is treated as a SQLite file path.
func BootDB(cfg *Config) (*gorm.DB, error) {
	var err error

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	if isPostgresDSN(cfg.DatabaseURL) {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	} else {
		path := strings.TrimPrefix(cfg.DatabaseURL, "sqlite:///")
		// WAL + busy timeout: the web panel and the bot share one file.
		dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=30000&_foreign_keys=on&_synchronous=NORMAL", path)
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db, cfg); err != nil {
		return db, err
	}

	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func autoMigrate(db *gorm.DB, cfg *Config) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.PendingRequest{},
		&domain.AdminAccount{},
		&domain.Group{},
	); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.ScheduleEntry{},
		&domain.ScheduleMetadata{},
		&domain.AcademicPeriod{},
		&domain.Announcement{},
		&domain.Poll{},
		&domain.PollOption{},
		&domain.PollResponse{},
		&domain.NotificationHistory{},
		&domain.LogEntry{},
		&domain.BotConfig{},
	); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	if err := seedAdmin(db, cfg); err != nil {
		return err
	}
	return seedDefaults(db)
}

func seedAdmin(db *gorm.DB, cfg *Config) error {
	var existing domain.AdminAccount
	err := db.Where("role = 'admin'").First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	now := time.Now()
	admin := domain.AdminAccount{
		Username:  cfg.AdminUsername,
		Password:  string(hashed),
		Role:      "admin",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return db.Create(&admin).Error
}

func seedDefaults(db *gorm.DB) error {
	var meta domain.ScheduleMetadata
	if err := db.First(&meta).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		meta = domain.ScheduleMetadata{
			CurrentWeek:  domain.WeekNumerator,
			GroupName:    "KCM-24-11",
			AcademicYear: "2025/2026",
		}
		if err := db.Create(&meta).Error; err != nil {
			return err
		}
	}

	defaults := []domain.BotConfig{
		{Key: "notification_interval", Value: "60", Description: "Інтервал перевірки оповіщень (секунди)"},
		{Key: "alert_update_interval", Value: "60", Description: "Інтервал оновлення статусу тривог (секунди)"},
		{Key: "log_retention_days", Value: "30", Description: "Час зберігання логів (дні)"},
	}
	for _, c := range defaults {
		var existing domain.BotConfig
		err := db.Where("key = ?", c.Key).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
