package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"teachhub/domain"

	"github.com/sirupsen/logrus"
)

const (
	notifyWindowFrom = 10
	notifyWindowTo   = 11

	historyRetentionDays    = 7
	defaultLogRetentionDays = 30
)

// Notifier wakes up on a fixed interval, finds lessons starting in ten to
// eleven minutes for every subscribed user, and sends a reminder once per
// lesson per day. It also sweeps expired polls and prunes old bookkeeping
// rows when the date rolls over.
type Notifier struct {
	users    domain.UserRepo
	schedule domain.ScheduleUseCase
	entries  domain.ScheduleRepo
	history  domain.NotificationRepo
	polls    domain.PollUseCase
	syslog   domain.SyslogRepo
	alerts   domain.AlertProvider
	sender   domain.Sender
	log      *logrus.Logger

	Interval time.Duration
	now      func() time.Time

	lastPruneDate string
}

func NewNotifier(
	users domain.UserRepo,
	schedule domain.ScheduleUseCase,
	entries domain.ScheduleRepo,
	history domain.NotificationRepo,
	polls domain.PollUseCase,
	syslog domain.SyslogRepo,
	alerts domain.AlertProvider,
	sender domain.Sender,
	log *logrus.Logger,
	interval time.Duration,
) *Notifier {
	return &Notifier{
		users:    users,
		schedule: schedule,
		entries:  entries,
		history:  history,
		polls:    polls,
		syslog:   syslog,
		alerts:   alerts,
		sender:   sender,
		log:      log,
		Interval: interval,
		now:      time.Now,
	}
}

// Run ticks until the context is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.Interval)
	defer ticker.Stop()

	n.log.Info("lesson notifier started")
	for {
		select {
		case <-ctx.Done():
			n.log.Info("lesson notifier stopped")
			return
		case <-ticker.C:
			n.Tick(ctx)
		}
	}
}

// Tick runs one pass. A failure for one user never blocks the others.
func (n *Notifier) Tick(ctx context.Context) {
	now := n.now()

	if closed, err := n.polls.CloseExpired(ctx, now); err != nil {
		n.log.Errorf("expired poll sweep: %v", err)
	} else if closed > 0 {
		n.log.Infof("closed %d expired polls", closed)
	}
	n.pruneDaily(ctx, now)

	users, err := n.users.ListSubscribed(ctx)
	if err != nil {
		n.log.Errorf("listing subscribed users: %v", err)
		return
	}
	for _, user := range users {
		if err := n.notifyUser(ctx, user, now); err != nil {
			n.log.WithFields(logrus.Fields{"user_id": user.UserID}).Errorf("lesson reminder: %v", err)
		}
	}
}

func (n *Notifier) notifyUser(ctx context.Context, user domain.User, now time.Time) error {
	day := domain.DayName(now.Weekday())
	week := n.schedule.CurrentWeekType(ctx)

	lessons, err := n.lessonsFor(ctx, user.UserID, day, week)
	if err != nil {
		return err
	}
	nowMin := now.Hour()*60 + now.Minute()
	date := now.Format("2006-01-02")

	for i := range lessons {
		start, _, ok := parseTimeRange(lessons[i].Time)
		if !ok {
			continue
		}
		until := start - nowMin
		if until < notifyWindowFrom || until > notifyWindowTo {
			continue
		}
		key := LessonKey(&lessons[i], date, user.UserID)
		sent, err := n.history.AlreadySent(ctx, user.UserID, key, date)
		if err != nil {
			return err
		}
		if sent {
			continue
		}
		if err := n.sender.SendHTML(user.UserID, n.composeReminder(&lessons[i], until)); err != nil {
			return err
		}
		// recorded only after the send succeeds, so a failed delivery
		// is retried on the next tick
		if err := n.history.Record(ctx, &domain.NotificationHistory{
			UserID:           user.UserID,
			LessonKey:        key,
			NotificationDate: date,
		}); err != nil {
			return err
		}
		n.log.WithFields(logrus.Fields{"user_id": user.UserID}).Infof("lesson reminder sent: %s", lessons[i].Subject)
	}
	return nil
}

// lessonsFor prefers the rows a teacher owns; users without own rows get
// the shared group schedule.
func (n *Notifier) lessonsFor(ctx context.Context, userID int64, day string, week domain.WeekType) ([]domain.ScheduleEntry, error) {
	owned, err := n.entries.EntriesOwnedBy(ctx, userID, day, week)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		return owned, nil
	}
	return n.schedule.DaySchedule(ctx, day, week)
}

// LessonKey identifies one lesson occurrence for one user on one date.
func LessonKey(e *domain.ScheduleEntry, date string, userID int64) string {
	return fmt.Sprintf("%s_%s_%s_%s_%s_%d", date, e.Subject, e.Time, e.DayOfWeek, e.WeekType, userID)
}

func (n *Notifier) composeReminder(e *domain.ScheduleEntry, minutesLeft int) string {
	text := n.alerts.HeaderHTML()
	text += fmt.Sprintf("🔔 <b>Нагадування</b>\n\nЧерез %d хв починається:\n\n", minutesLeft)
	text += fmt.Sprintf("📚 <b>%s</b> (%s)\n🕐 %s\n", e.Subject, e.LessonType, e.Time)
	if e.Teacher != "" {
		text += fmt.Sprintf("👨‍🏫 %s\n", e.Teacher)
	}
	if e.Classroom != "" {
		text += fmt.Sprintf("🚪 Ауд. %s\n", e.Classroom)
	}
	if e.ConferenceLink != "" {
		text += fmt.Sprintf("🔗 <a href=\"%s\">Посилання на конференцію</a>\n", e.ConferenceLink)
	}
	return text
}

// pruneDaily runs once per calendar date: reminder history older than seven
// days and log rows past the configured retention are dropped.
func (n *Notifier) pruneDaily(ctx context.Context, now time.Time) {
	date := now.Format("2006-01-02")
	if date == n.lastPruneDate {
		return
	}
	n.lastPruneDate = date

	cutoff := now.AddDate(0, 0, -historyRetentionDays).Format("2006-01-02")
	if removed, err := n.history.PruneBefore(ctx, cutoff); err != nil {
		n.log.Errorf("pruning notification history: %v", err)
	} else if removed > 0 {
		n.log.Infof("pruned %d notification history rows", removed)
	}

	retention := defaultLogRetentionDays
	if cfg, err := n.syslog.GetConfig(ctx, "log_retention_days"); err == nil && cfg != nil {
		if v, err := strconv.Atoi(cfg.Value); err == nil && v > 0 {
			retention = v
		}
	}
	if removed, err := n.syslog.CleanOldLogs(ctx, now.AddDate(0, 0, -retention)); err != nil {
		n.log.Errorf("cleaning old logs: %v", err)
	} else if removed > 0 {
		n.log.Infof("cleaned %d old log rows", removed)
	}
}
