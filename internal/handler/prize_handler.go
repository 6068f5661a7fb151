package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/model"
)

// PrizeServiceInterface defines the interface for the available-prize projection.
type PrizeServiceInterface interface {
	AvailablePrizeTypes(ctx context.Context) ([]model.PrizeTypeInfo, error)
}

// PrizeHandler serves the prize list shown on the wheel.
type PrizeHandler struct {
	service PrizeServiceInterface
}

// NewPrizeHandler creates a new PrizeHandler.
func NewPrizeHandler(svc PrizeServiceInterface) *PrizeHandler {
	return &PrizeHandler{service: svc}
}

// List handles GET /api/prizes requests: prize types that currently have
// stock, in the fixed wheel order.
func (h *PrizeHandler) List(c *fiber.Ctx) error {
	prizes, err := h.service.AvailablePrizeTypes(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list available prizes")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"prizes": prizes})
}
