package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/internal/service"
)

// SpinServiceInterface defines the interface for the allocation engine.
type SpinServiceInterface interface {
	Spin(ctx context.Context, email string) (*model.SpinResult, error)
}

// SpinHandler handles spin (coupon allocation) requests.
type SpinHandler struct {
	service   SpinServiceInterface
	validator *validator.Validate
}

// NewSpinHandler creates a new SpinHandler with the given service and validator.
func NewSpinHandler(svc SpinServiceInterface, v *validator.Validate) *SpinHandler {
	return &SpinHandler{service: svc, validator: v}
}

// Spin handles POST /api/spin requests. A repeat spin is not an error: it
// returns the originally assigned prize with already_spun set.
func (h *SpinHandler) Spin(c *fiber.Ctx) error {
	var req model.SpinRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Voer een geldig e-mailadres in."})
	}

	result, err := h.service.Spin(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Je moet je eerst registreren voordat je kunt draaien.",
			})
		}
		if errors.Is(err, service.ErrOutOfStock) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Er zijn geen vouchercodes meer beschikbaar.",
			})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("email", req.Email).
			Msg("failed to allocate coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Er is een serverfout opgetreden."})
	}

	message := fmt.Sprintf("Gefeliciteerd! Je hebt %s gewonnen!", result.DisplayName)
	if result.AlreadySpun {
		message = "Je hebt al aan het rad gedraaid."
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"prize_type":   result.PrizeType,
		"display_name": result.DisplayName,
		"code":         result.Code,
		"already_spun": result.AlreadySpun,
		"message":      message,
	})
}
