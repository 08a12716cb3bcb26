package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"schedule_bot.db"`

	BotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	BotUsername string `env:"TELEGRAM_BOT_USERNAME" envDefault:"teachhub_bot"`
	AdminID     int64  `env:"ADMIN_ID,required"`

	AlertAPIToken  string `env:"ALERTS_API_TOKEN"`
	AlertCity      string `env:"AIR_ALERT_CITY" envDefault:"Дніпро"`
	AlertIntervalS int    `env:"ALERT_UPDATE_INTERVAL" envDefault:"60"`

	NotifyIntervalS int `env:"NOTIFICATION_INTERVAL" envDefault:"60"`

	JWTSecret     string `env:"BYTE_KEY" envDefault:"dev-secret-change-in-production"`
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin"`

	LogDir string `env:"LOG_DIR" envDefault:"./logs"`
}

// Load reads .env when present and parses the environment into Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
