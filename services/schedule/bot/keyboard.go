package bot

import (
	"sync"
	"time"

	"teachhub/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/google/uuid"
)

const (
	btnToday         = "📅 Сьогодні"
	btnWeek          = "🗓 Тиждень"
	btnCurrent       = "⏰ Поточна пара"
	btnProgress      = "📈 Прогрес року"
	btnAnnouncements = "📢 Оголошення"
	btnPolls         = "📊 Опитування"
	btnNotify        = "🔔 Сповіщення"
	btnHelp          = "🆘 Допомога"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnWeek),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCurrent),
			tgbotapi.NewKeyboardButton(btnProgress),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAnnouncements),
			tgbotapi.NewKeyboardButton(btnPolls),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNotify),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// weekToggleKeyboard lets the reader flip the week view without changing
// the stored settings.
func weekToggleKeyboard(shown domain.WeekType) tgbotapi.InlineKeyboardMarkup {
	other := shown.Other()
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 "+other.DisplayUA(), "week:"+string(other)),
		),
	)
}

func adminMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Запити на доступ", "adm:pending"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Користувачі", "adm:users:0"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1️⃣ Чисельник", "adm:week:numerator"),
			tgbotapi.NewInlineKeyboardButtonData("2️⃣ Знаменник", "adm:week:denominator"),
		),
	)
}

const tokenTTL = time.Hour

// adminAction is what a signed inline button is allowed to do. Tokens are
// single-use and expire, so a stale or replayed callback does nothing.
type adminAction struct {
	kind    string
	userID  int64
	expires time.Time
}

type tokenStore struct {
	mu     sync.Mutex
	tokens map[string]adminAction
}

func newTokenStore() *tokenStore {
	return &tokenStore{tokens: make(map[string]adminAction)}
}

func (ts *tokenStore) issue(kind string, userID int64) string {
	token := uuid.NewString()
	ts.mu.Lock()
	ts.tokens[token] = adminAction{kind: kind, userID: userID, expires: time.Now().Add(tokenTTL)}
	// opportunistic sweep, the map never grows past the pending queue
	for k, v := range ts.tokens {
		if time.Now().After(v.expires) {
			delete(ts.tokens, k)
		}
	}
	ts.mu.Unlock()
	return token
}

func (ts *tokenStore) redeem(token string) (adminAction, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	action, ok := ts.tokens[token]
	if !ok {
		return adminAction{}, false
	}
	delete(ts.tokens, token)
	if time.Now().After(action.expires) {
		return adminAction{}, false
	}
	return action, true
}

func approvalKeyboard(approveToken, denyToken string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Схвалити", "tok:"+approveToken),
			tgbotapi.NewInlineKeyboardButtonData("❌ Відхилити", "tok:"+denyToken),
		),
	)
}
