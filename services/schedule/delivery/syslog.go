package delivery

import (
	"strconv"
	"time"

	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type syslogHandler struct {
	repo  domain.SyslogRepo
	users domain.UserRepo
}

func NewSyslogDelivery(app *fiber.App, repo domain.SyslogRepo, users domain.UserRepo) {
	handler := &syslogHandler{
		repo:  repo,
		users: users,
	}

	route := app.Group("/logs", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryListLogs)

	stats := app.Group("/stats", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	stats.Get("/", handler.deliveryStats)
}

// deliveryListLogs pages through persisted log rows. ?level= filters by
// severity, ?search= matches message substrings.
func (sh *syslogHandler) deliveryListLogs(c *fiber.Ctx) error {
	level := c.Query("level")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "50"))

	logs, total, err := sh.repo.ListLogs(c.Context(), level, search, page, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve logs",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logs retrieved successfully",
		"data": fiber.Map{
			"logs":     logs,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		},
	})
}

func (sh *syslogHandler) deliveryStats(c *fiber.Ctx) error {
	commands, err := sh.repo.CommandStats(c.Context(), 10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute command stats",
			"error":   err.Error(),
		})
	}
	activity, err := sh.repo.DailyActivity(c.Context(), time.Now().AddDate(0, 0, -30))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute daily activity",
			"error":   err.Error(),
		})
	}
	users, err := sh.users.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count users",
			"error":   err.Error(),
		})
	}
	subscribed, err := sh.users.ListSubscribed(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count subscribers",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stats computed successfully",
		"data": fiber.Map{
			"total_users":      len(users),
			"subscribed_users": len(subscribed),
			"top_commands":     commands,
			"daily_activity":   activity,
		},
	})
}
