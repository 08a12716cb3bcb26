package delivery

import (
	"strconv"
	"time"

	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type academicHandler struct {
	auc domain.AcademicUseCase
}

func NewAcademicDelivery(app *fiber.App, uc domain.AcademicUseCase) {
	handler := &academicHandler{
		auc: uc,
	}

	route := app.Group("/academic", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryListPeriods)
	route.Post("/", handler.deliveryCreatePeriod)
	route.Put("/:id", handler.deliveryUpdatePeriod)
	route.Delete("/:id", handler.deliveryDeletePeriod)
	route.Get("/progress", handler.deliveryProgress)
}

func (ah *academicHandler) deliveryListPeriods(c *fiber.Ctx) error {
	periods, err := ah.auc.ListPeriods(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve academic periods",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Academic periods retrieved successfully",
		"data":    periods,
	})
}

func (ah *academicHandler) deliveryCreatePeriod(c *fiber.Ctx) error {
	var period domain.AcademicPeriod
	if err := c.BodyParser(&period); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := ah.auc.CreatePeriod(c.Context(), &period); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create period",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Period created successfully",
		"data":    period,
	})
}

func (ah *academicHandler) deliveryUpdatePeriod(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid period id",
		})
	}

	var period domain.AcademicPeriod
	if err := c.BodyParser(&period); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	period.ID = id

	if err := ah.auc.UpdatePeriod(c.Context(), &period); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update period",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Period updated successfully",
		"data":    period,
	})
}

func (ah *academicHandler) deliveryDeletePeriod(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid period id",
		})
	}

	if err := ah.auc.DeletePeriod(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete period",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Period deleted successfully",
	})
}

func (ah *academicHandler) deliveryProgress(c *fiber.Ctx) error {
	progress, err := ah.auc.Progress(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to compute progress",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Progress computed successfully",
		"data":    progress,
	})
}
