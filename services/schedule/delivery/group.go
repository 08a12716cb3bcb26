package delivery

import (
	"strconv"

	"teachhub/domain"
	"teachhub/middleware"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type groupHandler struct {
	repo domain.GroupRepo
}

func NewGroupDelivery(app *fiber.App, repo domain.GroupRepo) {
	handler := &groupHandler{
		repo: repo,
	}

	route := app.Group("/groups", middleware.AuthRequired(), middleware.RoleRequired("admin"))
	route.Get("/", handler.deliveryList)
	route.Post("/", handler.deliveryCreate)
	route.Put("/:id", handler.deliveryUpdate)
	route.Delete("/:id", handler.deliveryDelete)
}

func (gh *groupHandler) deliveryList(c *fiber.Ctx) error {
	groups, err := gh.repo.ListGroups(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve groups",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Groups retrieved successfully",
		"data":    groups,
	})
}

func (gh *groupHandler) deliveryCreate(c *fiber.Ctx) error {
	var group domain.Group
	if err := c.BodyParser(&group); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if _, err := govalidator.ValidateStruct(&group); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := gh.repo.CreateGroup(c.Context(), &group); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create group",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Group created successfully",
		"data":    group,
	})
}

func (gh *groupHandler) deliveryUpdate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid group id",
		})
	}

	var group domain.Group
	if err := c.BodyParser(&group); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	group.ID = id

	if err := gh.repo.UpdateGroup(c.Context(), &group); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update group",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Group updated successfully",
		"data":    group,
	})
}

func (gh *groupHandler) deliveryDelete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid group id",
		})
	}

	if err := gh.repo.DeleteGroup(c.Context(), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete group",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Group deleted successfully",
	})
}
