package delivery

import (
	"teachhub/config"
	"teachhub/domain"

	"github.com/gofiber/fiber/v2"
)

type authHandler struct {
	auc domain.AuthUseCase
}

func NewAuthDelivery(app *fiber.App, uc domain.AuthUseCase) {
	handler := &authHandler{
		auc: uc,
	}

	route := app.Group("/auth")
	route.Post("/login", handler.deliveryLogin)
}

func (ah *authHandler) deliveryLogin(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	resp, err := ah.auc.Login(c.Context(), &req)
	if err != nil {
		config.GetLogrusInstance().WithField("security", true).
			Warnf("failed panel login for %q from %s", req.Username, c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid username or password",
		})
	}

	config.GetLogrusInstance().WithField("security", true).
		Infof("panel login: %s", req.Username)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data":    resp,
	})
}
