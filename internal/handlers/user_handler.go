package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// UserHandler handles HTTP requests for customer accounts.
type UserHandler struct {
	service *services.UserService
	log     *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/userRegister", h.HandleRegister)
	router.Post("/userLogin", h.HandleLogin)
	router.Patch("/userUpdate/:id", h.HandleUpdate)
	router.Delete("/userDelete/:id", h.HandleDelete)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterUserInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	user, err := h.service.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully.",
		"user":    user,
	})
}

// HandleLogin checks a username and password pair.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginUserInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	user, err := h.service.LoginUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful.",
		"user":    user,
	})
}

func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	var req services.UpdateUserInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	summary, err := h.service.DeleteUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
		"user":    summary,
	})
}
