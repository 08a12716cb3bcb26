package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"teachhub/domain"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
)

const alertAPIURL = "https://api.alerts.in.ua/v1/alerts/active.json"

type alertFeed struct {
	Alerts []domain.Alert `json:"alerts"`
}

// AlertManager polls alerts.in.ua and serves a cached air-raid status for
// one city. Without an API token it stays inactive and reports no alerts.
type AlertManager struct {
	city     string
	token    string
	apiURL   string
	client   *http.Client
	log      *logrus.Logger
	Interval time.Duration

	mu     sync.RWMutex
	status domain.AlertStatus
	now    func() time.Time
}

func NewAlertManager(city, token string, interval time.Duration, log *logrus.Logger) *AlertManager {
	return &AlertManager{
		city:     city,
		token:    token,
		apiURL:   alertAPIURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
		Interval: interval,
		status:   domain.AlertStatus{City: city},
		now:      time.Now,
	}
}

// Run refreshes the cache on the configured interval until ctx is done.
func (am *AlertManager) Run(ctx context.Context) {
	if am.token == "" {
		am.log.Warn("alerts.in.ua token not set, air alert monitoring disabled")
		return
	}
	if err := am.Refresh(); err != nil {
		am.log.Errorf("initial alert refresh: %v", err)
	}
	ticker := time.NewTicker(am.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := am.Refresh(); err != nil {
				am.log.Errorf("alert refresh: %v", err)
			}
		}
	}
}

func (am *AlertManager) Status() domain.AlertStatus {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return am.status
}

// Refresh fetches the active alert list and keeps only this city's rows.
// On a fetch error the previous state is kept, a stale answer being better
// than a flapping one.
func (am *AlertManager) Refresh() error {
	if am.token == "" {
		return nil
	}
	req, err := http.NewRequest(http.MethodGet, am.apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+am.token)
	req.Header.Set("Accept", "application/json")

	resp, err := am.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alerts api status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var feed alertFeed
	if err := sonic.Unmarshal(body, &feed); err != nil {
		return err
	}

	city := strings.ToLower(am.city)
	var local []domain.Alert
	for _, a := range feed.Alerts {
		if strings.Contains(strings.ToLower(a.LocationTitle), city) {
			local = append(local, a)
		}
	}

	am.mu.Lock()
	wasActive := am.status.Active
	am.status = domain.AlertStatus{
		City:      am.city,
		Active:    len(local) > 0,
		Alerts:    local,
		CheckedAt: am.now(),
	}
	nowActive := am.status.Active
	am.mu.Unlock()

	if nowActive != wasActive {
		if nowActive {
			am.log.Warnf("air alert started in %s", am.city)
		} else {
			am.log.Infof("air alert cleared in %s", am.city)
		}
	}
	return nil
}

// HeaderHTML is prepended to bot messages while an alert is active.
func (am *AlertManager) HeaderHTML() string {
	if !am.Status().Active {
		return ""
	}
	return fmt.Sprintf("🔴 <b>УВАГА! Повітряна тривога!</b>\n📍 %s\n\n", am.city)
}

func (am *AlertManager) Indicator() string {
	if am.Status().Active {
		return "🔴"
	}
	return "🟢"
}

func (am *AlertManager) StatusText() string {
	s := am.Status()
	var b strings.Builder
	if s.Active {
		fmt.Fprintf(&b, "🔴 <b>%s</b>\n\nПовітряна тривога!\n", am.city)
		for _, a := range s.Alerts {
			fmt.Fprintf(&b, "• %s (%s)\n", a.LocationTitle, a.AlertType)
		}
	} else {
		fmt.Fprintf(&b, "🟢 <b>%s</b>\n\nПовітряної тривоги немає\n", am.city)
	}
	if !s.CheckedAt.IsZero() {
		ago := int(am.now().Sub(s.CheckedAt).Minutes())
		if ago < 1 {
			b.WriteString("\nОновлено щойно")
		} else {
			fmt.Fprintf(&b, "\nОновлено %d хв тому", ago)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
