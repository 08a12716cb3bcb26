package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"teachhub/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/sirupsen/logrus"
)

// Bot runs the Telegram side: long polling, command dispatch, keyboards
// and the access request flow.
type Bot struct {
	api           *tgbotapi.BotAPI
	auth          domain.AuthUseCase
	schedule      domain.ScheduleUseCase
	academic      domain.AcademicUseCase
	announcements domain.AnnouncementUseCase
	polls         domain.PollUseCase
	alerts        domain.AlertProvider
	log           *logrus.Logger

	adminID int64
	tokens  *tokenStore
}

func New(
	api *tgbotapi.BotAPI,
	auth domain.AuthUseCase,
	schedule domain.ScheduleUseCase,
	academic domain.AcademicUseCase,
	announcements domain.AnnouncementUseCase,
	polls domain.PollUseCase,
	alerts domain.AlertProvider,
	log *logrus.Logger,
	adminID int64,
) *Bot {
	return &Bot{
		api:           api,
		auth:          auth,
		schedule:      schedule,
		academic:      academic,
		announcements: announcements,
		polls:         polls,
		alerts:        alerts,
		log:           log,
		adminID:       adminID,
		tokens:        newTokenStore(),
	}
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	b.log.Infof("bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorf("panic in update handler: %v", r)
		}
	}()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := int64(msg.From.ID)
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.log.WithFields(logrus.Fields{
			"user_id": userID,
			"command": "/" + msg.Command(),
		}).Infof("command from @%s", msg.From.UserName)
	}

	if !b.isAdmin(userID) && !b.auth.IsUserAllowed(ctx, userID) {
		b.handleAccessRequest(ctx, msg)
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "menu":
			b.sendMenu(chatID)
		case "today":
			b.sendToday(ctx, chatID)
		case "week":
			b.sendWeek(ctx, chatID)
		case "help":
			b.sendHelp(chatID)
		case "admin":
			b.sendAdminPanel(ctx, chatID, userID)
		default:
			b.send(chatID, "🤷 Невідома команда. Спробуйте /menu")
		}
		return
	}

	switch msg.Text {
	case btnToday:
		b.sendToday(ctx, chatID)
	case btnWeek:
		b.sendWeek(ctx, chatID)
	case btnCurrent:
		b.sendCurrentLesson(ctx, chatID)
	case btnProgress:
		b.sendProgress(ctx, chatID)
	case btnAnnouncements:
		b.sendAnnouncements(ctx, chatID)
	case btnPolls:
		b.sendPolls(ctx, chatID)
	case btnNotify:
		b.sendNotifyToggle(ctx, chatID, userID)
	case btnHelp:
		b.sendHelp(chatID)
	default:
		b.send(chatID, "Оберіть пункт меню 👇")
	}
}

// handleAccessRequest is the only path for unknown users. Repeat messages
// do not ping the admin twice.
func (b *Bot) handleAccessRequest(ctx context.Context, msg *tgbotapi.Message) {
	userID := int64(msg.From.ID)
	created, err := b.auth.RequestAccess(ctx, userID, msg.From.UserName)
	if err != nil {
		b.log.Errorf("access request from %d: %v", userID, err)
		b.send(msg.Chat.ID, "⚠️ Сталася помилка, спробуйте пізніше")
		return
	}
	if created {
		b.log.WithFields(logrus.Fields{"user_id": userID, "security": true}).
			Infof("access requested by @%s", msg.From.UserName)
		b.notifyAdminAboutRequest(&domain.PendingRequest{
			UserID:    userID,
			Username:  msg.From.UserName,
			Timestamp: time.Now(),
		})
	}
	b.send(msg.Chat.ID, "⏳ Ваш запит на доступ надіслано адміністратору.\nВи отримаєте повідомлення після схвалення.")
}

func (b *Bot) notifyAdminAboutRequest(req *domain.PendingRequest) {
	approve := b.tokens.issue("approve", req.UserID)
	deny := b.tokens.issue("deny", req.UserID)

	out := tgbotapi.NewMessage(b.adminID, formatPendingRequest(req))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = approvalKeyboard(approve, deny)
	if _, err := b.api.Send(out); err != nil {
		b.log.Errorf("notifying admin about request: %v", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	data := query.Data
	userID := int64(query.From.ID)

	switch {
	case strings.HasPrefix(data, "tok:"):
		b.handleAdminToken(ctx, query, strings.TrimPrefix(data, "tok:"))
		return
	case strings.HasPrefix(data, "vote:"):
		b.handleVote(ctx, query, strings.TrimPrefix(data, "vote:"))
		return
	case strings.HasPrefix(data, "week:"):
		b.handleWeekToggle(ctx, query, domain.WeekType(strings.TrimPrefix(data, "week:")))
		return
	case strings.HasPrefix(data, "adm:"):
		b.handleAdminCallback(ctx, query, strings.TrimPrefix(data, "adm:"))
		return
	case data == "notify:on" || data == "notify:off":
		enabled := data == "notify:on"
		if err := b.auth.SetNotifications(ctx, userID, enabled); err != nil {
			b.answer(query.ID, "⚠️ Не вдалося зберегти")
			return
		}
		if enabled {
			b.answer(query.ID, "🔔 Сповіщення увімкнено")
		} else {
			b.answer(query.ID, "🔕 Сповіщення вимкнено")
		}
		return
	}
	b.answer(query.ID, "")
}

// handleAdminToken acts on a signed approve/deny button. Only the admin may
// redeem a token, and each token works once.
func (b *Bot) handleAdminToken(ctx context.Context, query *tgbotapi.CallbackQuery, token string) {
	if !b.isAdmin(int64(query.From.ID)) {
		b.log.WithFields(logrus.Fields{"user_id": int64(query.From.ID), "security": true}).
			Warn("non-admin tried to redeem an admin token")
		b.answer(query.ID, "⛔ Недостатньо прав")
		return
	}
	action, ok := b.tokens.redeem(token)
	if !ok {
		b.answer(query.ID, "⌛ Кнопка застаріла, відкрийте /admin")
		return
	}

	switch action.kind {
	case "revoke":
		if err := b.auth.RevokeUser(ctx, action.userID); err != nil {
			b.answer(query.ID, "⚠️ Користувача вже видалено")
			return
		}
		b.log.WithFields(logrus.Fields{"user_id": action.userID, "security": true}).
			Info("access revoked via bot")
		b.answer(query.ID, "🗑 Доступ відкликано")
		b.sendUserPage(ctx, query, 0)
	case "approve":
		user, err := b.auth.ApproveUser(ctx, action.userID)
		if err != nil {
			b.answer(query.ID, "⚠️ Запит вже оброблено")
			return
		}
		b.log.WithFields(logrus.Fields{"user_id": action.userID, "security": true}).
			Info("access approved via bot")
		b.answer(query.ID, "✅ Доступ надано")
		b.editText(query, fmt.Sprintf("✅ Доступ надано користувачу @%s (<code>%d</code>)", user.Username, user.UserID))
		b.send(action.userID, "🎉 Ваш запит схвалено!\nНадішліть /menu, щоб почати.")
	case "deny":
		if err := b.auth.DenyUser(ctx, action.userID); err != nil {
			b.answer(query.ID, "⚠️ Запит вже оброблено")
			return
		}
		b.log.WithFields(logrus.Fields{"user_id": action.userID, "security": true}).
			Info("access denied via bot")
		b.answer(query.ID, "❌ Запит відхилено")
		b.editText(query, fmt.Sprintf("❌ Запит користувача <code>%d</code> відхилено", action.userID))
	}
}

func (b *Bot) handleVote(ctx context.Context, query *tgbotapi.CallbackQuery, payload string) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		b.answer(query.ID, "")
		return
	}
	pollID, err1 := strconv.Atoi(parts[0])
	optionID, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		b.answer(query.ID, "")
		return
	}

	if err := b.polls.Vote(ctx, pollID, optionID, int64(query.From.ID)); err != nil {
		b.answer(query.ID, "⚠️ Голос не зараховано: опитування закрито")
		return
	}
	b.answer(query.ID, "✅ Голос зараховано")

	if results, err := b.polls.Results(ctx, pollID); err == nil {
		b.editText(query, formatPollResults(results))
	}
}

func (b *Bot) sendMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, b.alerts.HeaderHTML()+"👋 Вітаю! Оберіть дію з меню:")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("sending menu: %v", err)
	}
}

func (b *Bot) sendToday(ctx context.Context, chatID int64) {
	now := time.Now()
	day := domain.DayName(now.Weekday())
	week := b.schedule.CurrentWeekType(ctx)

	entries, err := b.schedule.DaySchedule(ctx, day, week)
	if err != nil {
		b.log.Errorf("today schedule: %v", err)
		b.send(chatID, "⚠️ Не вдалося завантажити розклад")
		return
	}
	text := b.alerts.HeaderHTML() + formatDay(day, week, entries) + "\n\n📆 " + formatDate(now)
	b.send(chatID, text)
}

func (b *Bot) sendWeek(ctx context.Context, chatID int64) {
	week := b.schedule.CurrentWeekType(ctx)
	days, err := b.schedule.WeekSchedule(ctx, week)
	if err != nil {
		b.log.Errorf("week schedule: %v", err)
		b.send(chatID, "⚠️ Не вдалося завантажити розклад")
		return
	}
	msg := tgbotapi.NewMessage(chatID, b.alerts.HeaderHTML()+formatWeek(week, days))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = weekToggleKeyboard(week)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("sending week schedule: %v", err)
	}
}

// handleWeekToggle redraws the week view for the other week type in place.
// It never touches the stored settings.
func (b *Bot) handleWeekToggle(ctx context.Context, query *tgbotapi.CallbackQuery, week domain.WeekType) {
	if !week.Valid() {
		b.answer(query.ID, "")
		return
	}
	days, err := b.schedule.WeekSchedule(ctx, week)
	if err != nil {
		b.log.Errorf("week schedule: %v", err)
		b.answer(query.ID, "⚠️ Не вдалося завантажити розклад")
		return
	}
	b.answer(query.ID, "")
	kb := weekToggleKeyboard(week)
	b.editWithKeyboard(query, formatWeek(week, days), &kb)
}

func (b *Bot) sendCurrentLesson(ctx context.Context, chatID int64) {
	now := time.Now()
	current, next, err := b.schedule.CurrentLessonInfo(ctx, now)
	if err != nil {
		b.log.Errorf("current lesson: %v", err)
		b.send(chatID, "⚠️ Не вдалося завантажити розклад")
		return
	}
	var timer *domain.LessonTimer
	if current != nil {
		timer = b.schedule.LessonTimer(current, now)
	}
	b.send(chatID, b.alerts.HeaderHTML()+formatCurrentLesson(current, next, timer))
}

func (b *Bot) sendProgress(ctx context.Context, chatID int64) {
	report, err := b.academic.ProgressReport(ctx, time.Now())
	if err != nil {
		b.log.Errorf("progress report: %v", err)
		b.send(chatID, "⚠️ Не вдалося побудувати звіт")
		return
	}
	b.send(chatID, b.alerts.HeaderHTML()+report)
}

func (b *Bot) sendAnnouncements(ctx context.Context, chatID int64) {
	text, err := b.announcements.FormatActive(ctx)
	if err != nil {
		b.log.Errorf("active announcement: %v", err)
		b.send(chatID, "⚠️ Не вдалося завантажити оголошення")
		return
	}
	b.send(chatID, text)
}

func (b *Bot) sendPolls(ctx context.Context, chatID int64) {
	polls, err := b.polls.ListActive(ctx)
	if err != nil {
		b.log.Errorf("active polls: %v", err)
		b.send(chatID, "⚠️ Не вдалося завантажити опитування")
		return
	}
	if len(polls) == 0 {
		b.send(chatID, "📊 Активних опитувань немає")
		return
	}
	for i := range polls {
		poll := &polls[i]
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, opt := range poll.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt.Text, fmt.Sprintf("vote:%d:%d", poll.ID, opt.ID)),
			))
		}
		msg := tgbotapi.NewMessage(chatID, formatPollForVoting(poll))
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
		if _, err := b.api.Send(msg); err != nil {
			b.log.Errorf("sending poll %d: %v", poll.ID, err)
		}
	}
}

func (b *Bot) sendNotifyToggle(ctx context.Context, chatID, userID int64) {
	status := "🔕 вимкнено"
	if b.auth.NotificationsEnabled(ctx, userID) {
		status = "🔔 увімкнено"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Нагадування про пари: %s\n\nНадсилаються за 10 хвилин до початку.", status))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Увімкнути", "notify:on"),
			tgbotapi.NewInlineKeyboardButtonData("🔕 Вимкнути", "notify:off"),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("sending notify toggle: %v", err)
	}
}

func (b *Bot) sendHelp(chatID int64) {
	b.send(chatID, `🆘 <b>Довідка</b>

/menu — головне меню
/today — розклад на сьогодні
/week — розклад на тиждень
/help — ця довідка

📅 Сьогодні — пари на сьогодні
🗓 Тиждень — весь тиждень
⏰ Поточна пара — що йде зараз і скільки лишилось
📈 Прогрес року — стан навчальних періодів
📢 Оголошення — актуальне оголошення
📊 Опитування — проголосувати
🔔 Сповіщення — нагадування за 10 хвилин до пари`)
}

func (b *Bot) sendAdminPanel(ctx context.Context, chatID, userID int64) {
	if !b.isAdmin(userID) {
		b.log.WithFields(logrus.Fields{"user_id": userID, "security": true}).
			Warn("non-admin called /admin")
		b.send(chatID, "⛔ Команда доступна лише адміністратору")
		return
	}
	week := b.schedule.CurrentWeekType(ctx)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🛠 <b>Панель адміністратора</b>\n\nПоточний тиждень: <b>%s</b>", week.DisplayUA()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = adminMenuKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("sending admin panel: %v", err)
	}
}

// handleAdminCallback routes the admin menu buttons. Every branch is gated
// on the admin id, the menu message itself is not a credential.
func (b *Bot) handleAdminCallback(ctx context.Context, query *tgbotapi.CallbackQuery, action string) {
	if !b.isAdmin(int64(query.From.ID)) {
		b.log.WithFields(logrus.Fields{"user_id": int64(query.From.ID), "security": true}).
			Warn("non-admin pressed an admin button")
		b.answer(query.ID, "⛔ Недостатньо прав")
		return
	}

	if query.Message == nil {
		b.answer(query.ID, "")
		return
	}

	switch {
	case action == "pending":
		b.answer(query.ID, "")
		b.sendPendingList(ctx, query.Message.Chat.ID)
	case strings.HasPrefix(action, "users:"):
		page, err := strconv.Atoi(strings.TrimPrefix(action, "users:"))
		if err != nil || page < 0 {
			page = 0
		}
		b.answer(query.ID, "")
		b.sendUserPage(ctx, query, page)
	case strings.HasPrefix(action, "week:"):
		week := domain.WeekType(strings.TrimPrefix(action, "week:"))
		if err := b.schedule.SetCurrentWeek(ctx, week); err != nil {
			b.answer(query.ID, "⚠️ Не вдалося змінити тиждень")
			return
		}
		b.log.WithFields(logrus.Fields{"user_id": int64(query.From.ID), "security": true}).
			Infof("week manually set to %s via bot", week)
		b.answer(query.ID, "✅ Тиждень змінено")
		kb := adminMenuKeyboard()
		b.editWithKeyboard(query, fmt.Sprintf("🛠 <b>Панель адміністратора</b>\n\nПоточний тиждень: <b>%s</b>", week.DisplayUA()), &kb)
	default:
		b.answer(query.ID, "")
	}
}

// sendPendingList resends every open access request with fresh signed buttons.
func (b *Bot) sendPendingList(ctx context.Context, chatID int64) {
	pending, err := b.auth.ListPending(ctx)
	if err != nil {
		b.log.Errorf("listing pending: %v", err)
		b.send(chatID, "⚠️ Не вдалося завантажити запити")
		return
	}
	if len(pending) == 0 {
		b.send(chatID, "📭 Нових запитів на доступ немає")
		return
	}
	for i := range pending {
		b.notifyAdminAboutRequest(&pending[i])
	}
}

const usersPerPage = 5

// sendUserPage edits the admin message into one page of approved users,
// a revoke button per user plus prev/next navigation.
func (b *Bot) sendUserPage(ctx context.Context, query *tgbotapi.CallbackQuery, page int) {
	users, err := b.auth.ListUsers(ctx)
	if err != nil {
		b.log.Errorf("listing users: %v", err)
		b.answer(query.ID, "⚠️ Не вдалося завантажити користувачів")
		return
	}
	if len(users) == 0 {
		b.editText(query, "👥 Схвалених користувачів немає")
		return
	}

	lastPage := (len(users) - 1) / usersPerPage
	if page > lastPage {
		page = lastPage
	}
	from := page * usersPerPage
	to := from + usersPerPage
	if to > len(users) {
		to = len(users)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 <b>Користувачі</b> (стор. %d з %d, всього %d)\n\n", page+1, lastPage+1, len(users))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, u := range users[from:to] {
		name := u.Username
		if name == "" {
			name = strconv.FormatInt(u.UserID, 10)
		}
		bell := "🔕"
		if u.NotificationsEnabled {
			bell = "🔔"
		}
		fmt.Fprintf(&sb, "%s @%s (<code>%d</code>) — з %s\n", bell, name, u.UserID, formatDate(u.ApprovedAt))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 @"+name, "tok:"+b.tokens.issue("revoke", u.UserID)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("adm:users:%d", page-1)))
	}
	if page < lastPage {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("adm:users:%d", page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.editWithKeyboard(query, strings.TrimRight(sb.String(), "\n"), &kb)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("sending message to %d: %v", chatID, err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.AnswerCallbackQuery(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Errorf("answering callback: %v", err)
	}
}

func (b *Bot) editText(query *tgbotapi.CallbackQuery, text string) {
	if query.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		b.log.Errorf("editing message: %v", err)
	}
}

func (b *Bot) editWithKeyboard(query *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if query.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = kb
	if _, err := b.api.Send(edit); err != nil {
		b.log.Errorf("editing message: %v", err)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.adminID
}
