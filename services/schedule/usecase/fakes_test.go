package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"teachhub/domain"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeScheduleRepo keeps everything in slices; no locking needed because
// the tests drive it from one goroutine.
type fakeScheduleRepo struct {
	meta    *domain.ScheduleMetadata
	entries []domain.ScheduleEntry

	dayReads int
}

func (f *fakeScheduleRepo) GetMetadata(ctx context.Context) (*domain.ScheduleMetadata, error) {
	return f.meta, nil
}

func (f *fakeScheduleRepo) SaveMetadata(ctx context.Context, meta *domain.ScheduleMetadata) error {
	f.meta = meta
	return nil
}

func (f *fakeScheduleRepo) EntriesForDay(ctx context.Context, day string, week domain.WeekType) ([]domain.ScheduleEntry, error) {
	f.dayReads++
	var out []domain.ScheduleEntry
	for _, e := range f.entries {
		if e.DayOfWeek == day && e.WeekType == week {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) EntriesOwnedBy(ctx context.Context, userID int64, day string, week domain.WeekType) ([]domain.ScheduleEntry, error) {
	var out []domain.ScheduleEntry
	for _, e := range f.entries {
		if e.TeacherUserID == userID && e.DayOfWeek == day && e.WeekType == week {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) AllEntries(ctx context.Context) ([]domain.ScheduleEntry, error) {
	return f.entries, nil
}

func (f *fakeScheduleRepo) GetEntry(ctx context.Context, id int) (*domain.ScheduleEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i], nil
		}
	}
	return nil, fmt.Errorf("entry %d not found", id)
}

func (f *fakeScheduleRepo) CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	entry.ID = len(f.entries) + 1
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeScheduleRepo) UpdateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	return fmt.Errorf("entry %d not found", entry.ID)
}

func (f *fakeScheduleRepo) DeleteEntry(ctx context.Context, id int) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry %d not found", id)
}

func (f *fakeScheduleRepo) TeacherWorkload(ctx context.Context) ([]domain.TeacherWorkload, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users   []domain.User
	pending []domain.PendingRequest
	admins  []domain.AdminAccount
}

func (f *fakeUserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].UserID == userID {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) ListSubscribed(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.NotificationsEnabled {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.UserID == user.UserID {
			return fmt.Errorf("user %d already exists", user.UserID)
		}
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, userID int64) error {
	for i := range f.users {
		if f.users[i].UserID == userID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user %d not found", userID)
}

func (f *fakeUserRepo) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	for i := range f.users {
		if f.users[i].UserID == userID {
			f.users[i].NotificationsEnabled = enabled
			return nil
		}
	}
	return fmt.Errorf("user %d not found", userID)
}

func (f *fakeUserRepo) GetPending(ctx context.Context, userID int64) (*domain.PendingRequest, error) {
	for i := range f.pending {
		if f.pending[i].UserID == userID {
			return &f.pending[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListPending(ctx context.Context) ([]domain.PendingRequest, error) {
	return f.pending, nil
}

func (f *fakeUserRepo) CreatePending(ctx context.Context, req *domain.PendingRequest) error {
	f.pending = append(f.pending, *req)
	return nil
}

func (f *fakeUserRepo) DeletePending(ctx context.Context, userID int64) error {
	for i := range f.pending {
		if f.pending[i].UserID == userID {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("pending %d not found", userID)
}

func (f *fakeUserRepo) FindAdminByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	for i := range f.admins {
		if f.admins[i].Username == username {
			return &f.admins[i], nil
		}
	}
	return nil, fmt.Errorf("account not found")
}

type sentMessage struct {
	chatID int64
	text   string
}

// fakeSender records sends and can fail for selected chats.
type fakeSender struct {
	sent    []sentMessage
	failFor map[int64]bool
}

func (f *fakeSender) SendHTML(chatID int64, text string) error {
	if f.failFor[chatID] {
		return fmt.Errorf("chat %d unreachable", chatID)
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeNotificationRepo struct {
	rows []domain.NotificationHistory
}

func (f *fakeNotificationRepo) AlreadySent(ctx context.Context, userID int64, lessonKey, date string) (bool, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.LessonKey == lessonKey && r.NotificationDate == date {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) Record(ctx context.Context, h *domain.NotificationHistory) error {
	f.rows = append(f.rows, *h)
	return nil
}

func (f *fakeNotificationRepo) PruneBefore(ctx context.Context, date string) (int64, error) {
	kept := f.rows[:0]
	var removed int64
	for _, r := range f.rows {
		if r.NotificationDate < date {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return removed, nil
}

type fakeSyslogRepo struct {
	config map[string]string
}

func (f *fakeSyslogRepo) InsertLog(ctx context.Context, entry *domain.LogEntry) error { return nil }

func (f *fakeSyslogRepo) ListLogs(ctx context.Context, level, search string, page, perPage int) ([]domain.LogEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeSyslogRepo) CleanOldLogs(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeSyslogRepo) CommandStats(ctx context.Context, limit int) ([]domain.CommandStat, error) {
	return nil, nil
}

func (f *fakeSyslogRepo) DailyActivity(ctx context.Context, since time.Time) ([]domain.DailyActivity, error) {
	return nil, nil
}

func (f *fakeSyslogRepo) GetConfig(ctx context.Context, key string) (*domain.BotConfig, error) {
	if v, ok := f.config[key]; ok {
		return &domain.BotConfig{Key: key, Value: v}, nil
	}
	return nil, nil
}

func (f *fakeSyslogRepo) SetConfig(ctx context.Context, key, value, description string) error {
	if f.config == nil {
		f.config = make(map[string]string)
	}
	f.config[key] = value
	return nil
}

func (f *fakeSyslogRepo) ListConfig(ctx context.Context) ([]domain.BotConfig, error) {
	return nil, nil
}

type fakeAlerts struct {
	header string
}

func (f *fakeAlerts) Status() domain.AlertStatus { return domain.AlertStatus{} }
func (f *fakeAlerts) HeaderHTML() string         { return f.header }
func (f *fakeAlerts) Indicator() string          { return "🟢" }
func (f *fakeAlerts) StatusText() string         { return "" }
func (f *fakeAlerts) Refresh() error             { return nil }

type fakePollRepo struct {
	polls     []domain.Poll
	responses []domain.PollResponse
	nextID    int
}

func (f *fakePollRepo) CreatePoll(ctx context.Context, poll *domain.Poll) error {
	f.nextID++
	poll.ID = f.nextID
	for i := range poll.Options {
		poll.Options[i].ID = f.nextID*100 + i
		poll.Options[i].PollID = poll.ID
	}
	f.polls = append(f.polls, *poll)
	return nil
}

func (f *fakePollRepo) GetPoll(ctx context.Context, id int) (*domain.Poll, error) {
	for i := range f.polls {
		if f.polls[i].ID == id {
			return &f.polls[i], nil
		}
	}
	return nil, fmt.Errorf("poll %d not found", id)
}

func (f *fakePollRepo) ListActive(ctx context.Context) ([]domain.Poll, error) {
	var out []domain.Poll
	for _, p := range f.polls {
		if !p.IsClosed {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePollRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Poll, error) {
	var out []domain.Poll
	for _, p := range f.polls {
		if !p.IsClosed && p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePollRepo) UpdatePoll(ctx context.Context, poll *domain.Poll) error {
	for i := range f.polls {
		if f.polls[i].ID == poll.ID {
			f.polls[i] = *poll
			return nil
		}
	}
	return fmt.Errorf("poll %d not found", poll.ID)
}

func (f *fakePollRepo) ReplaceOptions(ctx context.Context, pollID int, options []domain.PollOption) error {
	for i := range f.polls {
		if f.polls[i].ID == pollID {
			for j := range options {
				options[j].ID = pollID*100 + j
			}
			f.polls[i].Options = options
			kept := f.responses[:0]
			for _, r := range f.responses {
				if r.PollID != pollID {
					kept = append(kept, r)
				}
			}
			f.responses = kept
			return nil
		}
	}
	return fmt.Errorf("poll %d not found", pollID)
}

func (f *fakePollRepo) ClosePoll(ctx context.Context, id int) error {
	for i := range f.polls {
		if f.polls[i].ID == id {
			f.polls[i].IsClosed = true
			return nil
		}
	}
	return fmt.Errorf("poll %d not found", id)
}

func (f *fakePollRepo) SaveResponse(ctx context.Context, resp *domain.PollResponse) error {
	for i := range f.responses {
		if f.responses[i].PollID == resp.PollID && f.responses[i].UserID == resp.UserID {
			f.responses[i].OptionID = resp.OptionID
			return nil
		}
	}
	f.responses = append(f.responses, *resp)
	return nil
}

func (f *fakePollRepo) CountResponses(ctx context.Context, pollID int) (int, error) {
	n := 0
	for _, r := range f.responses {
		if r.PollID == pollID {
			n++
		}
	}
	return n, nil
}

func (f *fakePollRepo) ResponsesByOption(ctx context.Context, pollID int) (map[int]int, error) {
	out := make(map[int]int)
	for _, r := range f.responses {
		if r.PollID == pollID {
			out[r.OptionID]++
		}
	}
	return out, nil
}

type fakeAcademicRepo struct {
	periods []domain.AcademicPeriod
}

func (f *fakeAcademicRepo) ListPeriods(ctx context.Context) ([]domain.AcademicPeriod, error) {
	return f.periods, nil
}

func (f *fakeAcademicRepo) GetPeriod(ctx context.Context, id int) (*domain.AcademicPeriod, error) {
	for i := range f.periods {
		if f.periods[i].ID == id {
			return &f.periods[i], nil
		}
	}
	return nil, fmt.Errorf("period %d not found", id)
}

func (f *fakeAcademicRepo) CreatePeriod(ctx context.Context, period *domain.AcademicPeriod) error {
	period.ID = len(f.periods) + 1
	f.periods = append(f.periods, *period)
	return nil
}

func (f *fakeAcademicRepo) UpdatePeriod(ctx context.Context, period *domain.AcademicPeriod) error {
	for i := range f.periods {
		if f.periods[i].ID == period.ID {
			f.periods[i] = *period
			return nil
		}
	}
	return fmt.Errorf("period %d not found", period.ID)
}

func (f *fakeAcademicRepo) DeletePeriod(ctx context.Context, id int) error {
	for i := range f.periods {
		if f.periods[i].ID == id {
			f.periods = append(f.periods[:i], f.periods[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("period %d not found", id)
}
