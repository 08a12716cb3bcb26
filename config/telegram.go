package config

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// BootBot connects to the Telegram Bot API and drops any webhook left over
// from a previous deployment so long polling can take over.
func BootBot(cfg *Config) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	if _, err := bot.RemoveWebhook(); err != nil {
		return nil, fmt.Errorf("failed to remove webhook: %w", err)
	}

	return bot, nil
}

// BotDeepLink is the t.me link new users follow to reach the bot.
func BotDeepLink(cfg *Config) string {
	return fmt.Sprintf("https://t.me/%s?start=access", cfg.BotUsername)
}
