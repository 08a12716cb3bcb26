package delivery

import (
	"teachhub/config"
	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

type settingsHandler struct {
	suc    domain.ScheduleUseCase
	syslog domain.SyslogRepo
	cfg    *config.Config
}

func NewSettingsDelivery(app *fiber.App, uc domain.ScheduleUseCase, syslog domain.SyslogRepo, cfg *config.Config) {
	handler := &settingsHandler{
		suc:    uc,
		syslog: syslog,
		cfg:    cfg,
	}

	route := app.Group("/settings", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryGetSettings)
	route.Put("/", handler.deliveryUpdateSettings)
	route.Put("/config/:key", handler.deliveryUpdateConfig)
	route.Get("/qr", handler.deliveryBotQR)
}

func (sh *settingsHandler) deliveryGetSettings(c *fiber.Ctx) error {
	meta, err := sh.suc.Metadata(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve settings",
			"error":   err.Error(),
		})
	}
	botCfg, err := sh.syslog.ListConfig(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve bot config",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Settings retrieved successfully",
		"data": fiber.Map{
			"metadata":     meta,
			"current_week": sh.suc.CurrentWeekType(c.Context()),
			"bot_config":   botCfg,
			"bot_link":     config.BotDeepLink(sh.cfg),
		},
	})
}

// deliveryUpdateSettings accepts any subset of the settings fields. Setting
// current_week pins the week manually; setting numerator_start_date turns
// automatic cycling back on.
func (sh *settingsHandler) deliveryUpdateSettings(c *fiber.Ctx) error {
	var req struct {
		GroupName          string  `json:"group_name"`
		AcademicYear       string  `json:"academic_year"`
		CurrentWeek        string  `json:"current_week"`
		NumeratorStartDate *string `json:"numerator_start_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if req.GroupName != "" || req.AcademicYear != "" {
		if err := sh.suc.UpdateSettings(c.Context(), req.GroupName, req.AcademicYear); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update settings",
				"error":   err.Error(),
			})
		}
	}
	if req.CurrentWeek != "" {
		if err := sh.suc.SetCurrentWeek(c.Context(), domain.WeekType(req.CurrentWeek)); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Failed to set current week",
				"error":   err.Error(),
			})
		}
	}
	if req.NumeratorStartDate != nil {
		if err := sh.suc.SetAnchorDate(c.Context(), *req.NumeratorStartDate); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Failed to set anchor date",
				"error":   err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Settings updated successfully",
	})
}

func (sh *settingsHandler) deliveryUpdateConfig(c *fiber.Ctx) error {
	key := c.Params("key")
	var req struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := sh.syslog.SetConfig(c.Context(), key, req.Value, ""); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update config",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Config updated successfully",
	})
}

// deliveryBotQR renders the bot deep link as a PNG for onboarding slides.
func (sh *settingsHandler) deliveryBotQR(c *fiber.Ctx) error {
	png, err := qrcode.Encode(config.BotDeepLink(sh.cfg), qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate QR code",
			"error":   err.Error(),
		})
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", "inline; filename=bot_link_qr.png")
	return c.Send(png)
}
