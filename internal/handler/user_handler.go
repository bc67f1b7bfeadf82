package handler

import (
	"agriconnect-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.userService.GetProfile(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user.ToResponse())
}

// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user.ToResponse())
}

// Dashboard summarises the caller's account
// GET /api/v1/users/dashboard
func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.userService.Dashboard(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dash)
}
