package delivery

import (
	"strconv"
	"time"

	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type pollHandler struct {
	puc domain.PollUseCase
}

func NewPollDelivery(app *fiber.App, uc domain.PollUseCase) {
	handler := &pollHandler{
		puc: uc,
	}

	route := app.Group("/polls", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryListActive)
	route.Post("/", handler.deliveryCreate)
	route.Put("/:id", handler.deliveryUpdate)
	route.Get("/:id/results", handler.deliveryResults)
	route.Post("/:id/close", handler.deliveryClose)
	route.Post("/:id/broadcast", handler.deliveryBroadcast)
}

type pollRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	ExpiresAt string   `json:"expires_at"`
}

func (ph *pollHandler) deliveryListActive(c *fiber.Ctx) error {
	polls, err := ph.puc.ListActive(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve polls",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Polls retrieved successfully",
		"data":    polls,
	})
}

func (ph *pollHandler) deliveryCreate(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)
	var req pollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var expires *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid expires_at, want RFC3339",
			})
		}
		expires = &t
	}

	poll, err := ph.puc.Create(c.Context(), req.Question, int64(userToken.UserID), userToken.Username, req.Options, expires)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create poll",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Poll created successfully",
		"data":    poll,
	})
}

func (ph *pollHandler) deliveryUpdate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid poll id",
		})
	}

	var req pollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := ph.puc.Update(c.Context(), id, req.Question, req.Options); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update poll",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Poll updated successfully",
	})
}

func (ph *pollHandler) deliveryResults(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid poll id",
		})
	}

	results, err := ph.puc.Results(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve results",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Results retrieved successfully",
		"data":    results,
	})
}

func (ph *pollHandler) deliveryClose(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid poll id",
		})
	}

	if err := ph.puc.Close(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to close poll",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Poll closed",
	})
}

func (ph *pollHandler) deliveryBroadcast(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid poll id",
		})
	}

	sent, err := ph.puc.Broadcast(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to broadcast poll",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Poll broadcast completed",
		"data":    fiber.Map{"recipients": sent},
	})
}
