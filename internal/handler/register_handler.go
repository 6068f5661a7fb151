package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/internal/service"
)

// RegistrationServiceInterface defines the interface for registration logic.
type RegistrationServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (int64, error)
}

// RegisterHandler handles participant registration requests.
type RegisterHandler struct {
	service   RegistrationServiceInterface
	validator *validator.Validate
}

// NewRegisterHandler creates a new RegisterHandler with the given service and validator.
func NewRegisterHandler(svc RegistrationServiceInterface, v *validator.Validate) *RegisterHandler {
	return &RegisterHandler{service: svc, validator: v}
}

// formatRegisterValidationError converts validator errors to user-facing messages.
func formatRegisterValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Field() {
			case "Email":
				if fe.Tag() == "email" {
					return "Voer een geldig e-mailadres in."
				}
				return "E-mailadres is vereist."
			case "FirstName", "LastName":
				return "Alle verplichte velden moeten ingevuld worden."
			}
		}
	}
	return "Alle verplichte velden moeten ingevuld worden."
}

// Register handles POST /api/register requests.
func (h *RegisterHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatRegisterValidationError(err)})
	}

	if _, err := h.service.Register(c.Context(), &req); err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Dit e-mailadres heeft al meegedaan aan het rad.",
			})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Alle verplichte velden moeten ingevuld worden.",
			})
		}
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register participant")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Er is een serverfout opgetreden."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registratie succesvol! Je kunt nu aan het rad draaien.",
	})
}
