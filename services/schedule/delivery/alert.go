package delivery

import (
	"teachhub/domain"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type alertHandler struct {
	alerts domain.AlertProvider
	db     *gorm.DB
}

// NewAlertDelivery registers the public endpoints: the alert widget polls
// /api/alert-status without a token, and /health backs deployment probes.
func NewAlertDelivery(app *fiber.App, alerts domain.AlertProvider, db *gorm.DB) {
	handler := &alertHandler{
		alerts: alerts,
		db:     db,
	}

	app.Get("/api/alert-status", handler.deliveryAlertStatus)
	app.Get("/health", handler.deliveryHealth)
}

func (ah *alertHandler) deliveryAlertStatus(c *fiber.Ctx) error {
	status := ah.alerts.Status()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alert status retrieved successfully",
		"data": fiber.Map{
			"city":       status.City,
			"active":     status.Active,
			"alerts":     status.Alerts,
			"checked_at": status.CheckedAt,
			"indicator":  ah.alerts.Indicator(),
		},
	})
}

func (ah *alertHandler) deliveryHealth(c *fiber.Ctx) error {
	sqlDB, err := ah.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Database unreachable",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "OK",
		"data": fiber.Map{
			"database": "up",
			"alerts":   ah.alerts.Indicator(),
		},
	})
}
