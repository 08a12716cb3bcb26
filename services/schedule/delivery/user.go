package delivery

import (
	"strconv"

	"teachhub/config"
	"teachhub/domain"
	"teachhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type userHandler struct {
	auc domain.AuthUseCase
}

func NewUserDelivery(app *fiber.App, uc domain.AuthUseCase) {
	handler := &userHandler{
		auc: uc,
	}

	route := app.Group("/users", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryListUsers)
	route.Post("/", handler.deliveryAddUser)
	route.Delete("/:id", handler.deliveryRevokeUser)
	route.Get("/pending", handler.deliveryListPending)
	route.Post("/pending/:id/approve", handler.deliveryApprove)
	route.Post("/pending/:id/deny", handler.deliveryDeny)
}

func (uh *userHandler) deliveryListUsers(c *fiber.Ctx) error {
	users, err := uh.auc.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve users",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Users retrieved successfully",
		"data":    users,
	})
}

func (uh *userHandler) deliveryAddUser(c *fiber.Ctx) error {
	var req struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	user, err := uh.auc.AddUser(c.Context(), req.UserID, req.Username)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to add user",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User added successfully",
		"data":    user,
	})
}

func (uh *userHandler) deliveryRevokeUser(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user id",
		})
	}

	if err := uh.auc.RevokeUser(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to revoke user",
			"error":   err.Error(),
		})
	}
	config.GetLogrusInstance().WithField("security", true).
		Warnf("access revoked for user %d by %s", userID, userToken.Username)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User access revoked",
	})
}

func (uh *userHandler) deliveryListPending(c *fiber.Ctx) error {
	pending, err := uh.auc.ListPending(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve pending requests",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pending requests retrieved successfully",
		"data":    pending,
	})
}

func (uh *userHandler) deliveryApprove(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user id",
		})
	}

	user, err := uh.auc.ApproveUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to approve request",
			"error":   err.Error(),
		})
	}
	config.GetLogrusInstance().WithField("security", true).
		Infof("access approved for user %d by %s", userID, userToken.Username)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Access approved",
		"data":    user,
	})
}

func (uh *userHandler) deliveryDeny(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user id",
		})
	}

	if err := uh.auc.DenyUser(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to deny request",
			"error":   err.Error(),
		})
	}
	config.GetLogrusInstance().WithField("security", true).
		Infof("access denied for user %d by %s", userID, userToken.Username)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Access denied",
	})
}
