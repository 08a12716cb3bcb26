package domain

import (
	"context"
	"time"
)

type Poll struct {
	ID             int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Question       string     `gorm:"type:varchar(500);not null" json:"question" valid:"required~Question is required"`
	AuthorID       int64      `gorm:"not null" json:"author_id"`
	AuthorUsername string     `gorm:"type:varchar(100)" json:"author_username"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IsClosed       bool       `gorm:"default:false;index" json:"is_closed"`

	Options []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"options" valid:"-"`
}

func (Poll) TableName() string { return "polls" }

type PollOption struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	PollID      int    `gorm:"not null;index" json:"poll_id"`
	Text        string `gorm:"type:varchar(300);not null" json:"text"`
	OptionOrder int    `gorm:"not null" json:"option_order"`
}

func (PollOption) TableName() string { return "poll_options" }

// PollResponse records one vote. A user has at most one response per poll;
// re-voting replaces the previous option.
type PollResponse struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PollID    int       `gorm:"not null;index;uniqueIndex:uq_poll_user" json:"poll_id"`
	OptionID  int       `gorm:"not null" json:"option_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_poll_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PollResponse) TableName() string { return "poll_responses" }

type PollOptionResult struct {
	OptionID int     `json:"option_id"`
	Text     string  `json:"text"`
	Votes    int     `json:"votes"`
	Percent  float64 `json:"percent"`
}

type PollResults struct {
	Poll       Poll               `json:"poll"`
	TotalVotes int                `json:"total_votes"`
	Options    []PollOptionResult `json:"options"`
}

type PollRepo interface {
	CreatePoll(ctx context.Context, poll *Poll) error
	GetPoll(ctx context.Context, id int) (*Poll, error)
	ListActive(ctx context.Context) ([]Poll, error)
	ListExpired(ctx context.Context, now time.Time) ([]Poll, error)
	UpdatePoll(ctx context.Context, poll *Poll) error
	ReplaceOptions(ctx context.Context, pollID int, options []PollOption) error
	ClosePoll(ctx context.Context, id int) error
	SaveResponse(ctx context.Context, resp *PollResponse) error
	CountResponses(ctx context.Context, pollID int) (int, error)
	ResponsesByOption(ctx context.Context, pollID int) (map[int]int, error)
}

type PollUseCase interface {
	Create(ctx context.Context, question string, authorID int64, authorUsername string, options []string, expiresAt *time.Time) (*Poll, error)
	Update(ctx context.Context, id int, question string, options []string) error
	ListActive(ctx context.Context) ([]Poll, error)
	Results(ctx context.Context, id int) (*PollResults, error)
	Close(ctx context.Context, id int) error
	Vote(ctx context.Context, pollID, optionID int, userID int64) error
	Broadcast(ctx context.Context, id int) (sent int, err error)
	CloseExpired(ctx context.Context, now time.Time) (int, error)
}
