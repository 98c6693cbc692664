package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// AdminHandler handles HTTP requests for back-office accounts.
type AdminHandler struct {
	service *services.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service *services.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/adminRegister", h.HandleRegister)
	router.Post("/adminLogin", h.HandleLogin)
	router.Patch("/adminUpdate/:id", h.HandleUpdate)
	router.Delete("/adminDelete/:id", h.HandleDelete)
}

func (h *AdminHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterAdminInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	admin, err := h.service.RegisterAdmin(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Admin registered successfully.",
		"admin":   admin,
	})
}

func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginAdminInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	admin, err := h.service.LoginAdmin(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful.",
		"admin":   admin,
	})
}

func (h *AdminHandler) HandleUpdate(c *fiber.Ctx) error {
	var req services.UpdateAdminInput
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}

	admin, err := h.service.UpdateAdmin(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin updated successfully",
		"admin":   admin,
	})
}

func (h *AdminHandler) HandleDelete(c *fiber.Ctx) error {
	summary, err := h.service.DeleteAdmin(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin deleted successfully",
		"admin":   summary,
	})
}
