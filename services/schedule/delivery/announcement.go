package delivery

import (
	"strconv"

	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type announcementHandler struct {
	auc domain.AnnouncementUseCase
}

func NewAnnouncementDelivery(app *fiber.App, uc domain.AnnouncementUseCase) {
	handler := &announcementHandler{
		auc: uc,
	}

	route := app.Group("/announcements", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryList)
	route.Post("/", handler.deliveryCreate)
	route.Put("/:id", handler.deliveryUpdate)
	route.Delete("/:id", handler.deliveryDelete)
	route.Post("/:id/activate", handler.deliveryActivate)
	route.Post("/:id/broadcast", handler.deliveryBroadcast)
}

func (ah *announcementHandler) deliveryList(c *fiber.Ctx) error {
	list, err := ah.auc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve announcements",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Announcements retrieved successfully",
		"data":    list,
	})
}

func (ah *announcementHandler) deliveryCreate(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)
	var req struct {
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	a, err := ah.auc.Create(c.Context(), req.Content, int64(userToken.UserID), userToken.Username, req.Priority)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create announcement",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Announcement created successfully",
		"data":    a,
	})
}

func (ah *announcementHandler) deliveryUpdate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid announcement id",
		})
	}

	var req struct {
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := ah.auc.Update(c.Context(), id, req.Content, req.Priority); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update announcement",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Announcement updated successfully",
	})
}

func (ah *announcementHandler) deliveryDelete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid announcement id",
		})
	}

	if err := ah.auc.Delete(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete announcement",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Announcement deleted successfully",
	})
}

func (ah *announcementHandler) deliveryActivate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid announcement id",
		})
	}

	if err := ah.auc.Activate(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to activate announcement",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Announcement activated",
	})
}

func (ah *announcementHandler) deliveryBroadcast(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid announcement id",
		})
	}

	sent, err := ah.auc.Broadcast(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to broadcast announcement",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Announcement broadcast completed",
		"data":    fiber.Map{"recipients": sent},
	})
}
