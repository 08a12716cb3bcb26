package bot

import (
	"teachhub/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Sender is the outbound transport the usecases broadcast through.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) domain.Sender {
	return &Sender{api: api}
}

func (s *Sender) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := s.api.Send(msg)
	return err
}
