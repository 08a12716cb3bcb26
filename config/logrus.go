package config

import (
	"io"
	"os"
	"path/filepath"
	"teachhub/domain"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

var logrusInstance *logrus.Logger

// GetLogrusInstance returns the process-wide logger. Output goes to stdout
// and a rotating file under LOG_DIR once InitLogOutput has run.
func GetLogrusInstance() *logrus.Logger {
	if logrusInstance == nil {
		logrusInstance = logrus.New()
		logrusInstance.SetFormatter(&logrus.JSONFormatter{})
	}
	return logrusInstance
}

// InitLogOutput tees the logger into a rotating file next to stdout.
func InitLogOutput(logDir string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	GetLogrusInstance().SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	return nil
}

// dbHook mirrors warning-and-above entries (and anything tagged with a
// security level) into the logs table for the admin panel.
type dbHook struct {
	db *gorm.DB
}

func AttachDBHook(db *gorm.DB) {
	GetLogrusInstance().AddHook(&dbHook{db: db})
}

func (h *dbHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.InfoLevel,
		logrus.WarnLevel,
		logrus.ErrorLevel,
		logrus.FatalLevel,
	}
}

func (h *dbHook) Fire(entry *logrus.Entry) error {
	level := domain.LogLevelInfo
	switch entry.Level {
	case logrus.WarnLevel:
		level = domain.LogLevelWarning
	case logrus.ErrorLevel, logrus.FatalLevel:
		level = domain.LogLevelError
	}
	if v, ok := entry.Data["security"]; ok {
		if b, ok := v.(bool); ok && b {
			level = domain.LogLevelSecurity
		}
	}

	row := domain.LogEntry{
		Timestamp: entry.Time,
		Level:     level,
		Message:   entry.Message,
	}
	if v, ok := entry.Data["user_id"]; ok {
		if id, ok := v.(int64); ok {
			row.UserID = &id
		}
	}
	if v, ok := entry.Data["command"]; ok {
		if cmd, ok := v.(string); ok {
			row.Command = &cmd
		}
	}

	// A failed insert must not take the logger down with it.
	h.db.Create(&row)
	return nil
}
