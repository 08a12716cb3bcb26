package domain

import "time"

// Alert is one active alert from the alerts.in.ua feed.
type Alert struct {
	LocationTitle string `json:"location_title"`
	AlertType     string `json:"alert_type"`
	StartedAt     string `json:"started_at"`
}

// AlertStatus is the cached view of the configured city's alerts.
type AlertStatus struct {
	City      string    `json:"city"`
	Active    bool      `json:"active"`
	Alerts    []Alert   `json:"alerts"`
	CheckedAt time.Time `json:"checked_at"`
}

// AlertProvider is the read surface the bot and the web API consume.
type AlertProvider interface {
	Status() AlertStatus
	HeaderHTML() string
	Indicator() string
	StatusText() string
	Refresh() error
}
