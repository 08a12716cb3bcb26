package delivery

import (
	"strconv"
	"time"

	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type scheduleHandler struct {
	suc domain.ScheduleUseCase
}

func NewScheduleDelivery(app *fiber.App, uc domain.ScheduleUseCase) {
	handler := &scheduleHandler{
		suc: uc,
	}

	route := app.Group("/schedule", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryAllEntries)
	route.Post("/", handler.deliveryCreateEntry)
	route.Put("/:id", handler.deliveryUpdateEntry)
	route.Delete("/:id", handler.deliveryDeleteEntry)
	route.Get("/week", handler.deliveryWeekSchedule)
	route.Get("/current", handler.deliveryCurrentLesson)
	route.Get("/workload", handler.deliveryWorkload)
}

func (sh *scheduleHandler) deliveryAllEntries(c *fiber.Ctx) error {
	entries, err := sh.suc.AllEntries(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve schedule",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Schedule retrieved successfully",
		"data":    entries,
	})
}

func (sh *scheduleHandler) deliveryCreateEntry(c *fiber.Ctx) error {
	var entry domain.ScheduleEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := sh.suc.CreateEntry(c.Context(), &entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create lesson",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Lesson created successfully",
		"data":    entry,
	})
}

func (sh *scheduleHandler) deliveryUpdateEntry(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid lesson id",
		})
	}

	var entry domain.ScheduleEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	entry.ID = id

	if err := sh.suc.UpdateEntry(c.Context(), &entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update lesson",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Lesson updated successfully",
		"data":    entry,
	})
}

func (sh *scheduleHandler) deliveryDeleteEntry(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid lesson id",
		})
	}

	if err := sh.suc.DeleteEntry(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete lesson",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Lesson deleted successfully",
	})
}

// deliveryWeekSchedule returns either week; ?week= defaults to the active one.
func (sh *scheduleHandler) deliveryWeekSchedule(c *fiber.Ctx) error {
	week := domain.WeekType(c.Query("week"))
	if !week.Valid() {
		week = sh.suc.CurrentWeekType(c.Context())
	}

	schedule, err := sh.suc.WeekSchedule(c.Context(), week)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve week schedule",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Week schedule retrieved successfully",
		"data": fiber.Map{
			"week_type": week,
			"days":      schedule,
		},
	})
}

func (sh *scheduleHandler) deliveryCurrentLesson(c *fiber.Ctx) error {
	now := time.Now()
	current, next, err := sh.suc.CurrentLessonInfo(c.Context(), now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to resolve current lesson",
			"error":   err.Error(),
		})
	}

	var timer *domain.LessonTimer
	if current != nil {
		timer = sh.suc.LessonTimer(current, now)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Current lesson resolved",
		"data": fiber.Map{
			"week_type": sh.suc.CurrentWeekType(c.Context()),
			"current":   current,
			"next":      next,
			"timer":     timer,
		},
	})
}

func (sh *scheduleHandler) deliveryWorkload(c *fiber.Ctx) error {
	workload, err := sh.suc.TeacherWorkload(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute teacher workload",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Teacher workload retrieved successfully",
		"data":    workload,
	})
}
