package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// CredentialsHandler is the hook for whatever external process refreshes
// the Instagram token; the scheduler itself never refreshes it.
type CredentialsHandler struct {
	s service.CredentialStore
}

func NewCredentialsHandler(service service.CredentialStore) *CredentialsHandler {
	return &CredentialsHandler{s: service}
}

func (h *CredentialsHandler) Update(c *fiber.Ctx) error {
	var req transfer.CredentialsUpdate
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	expiresAt, errs := req.Validate()
	if errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"errors":  errs,
		})
	}

	if err := h.s.SetCredentials(c.Context(), req.AccessToken, req.UserID, expiresAt); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to store credentials",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}
