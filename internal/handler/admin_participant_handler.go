package handler

import (
	"bytes"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/csvio"
	"github.com/AZ-BB/dutch-spinner/internal/model"
)

// ParticipantListingInterface defines the interface for the participant projection.
type ParticipantListingInterface interface {
	ListParticipants(ctx context.Context) ([]model.ParticipantWithCoupon, error)
}

// AdminParticipantHandler serves the admin participant views.
type AdminParticipantHandler struct {
	service ParticipantListingInterface
}

// NewAdminParticipantHandler creates a new AdminParticipantHandler.
func NewAdminParticipantHandler(svc ParticipantListingInterface) *AdminParticipantHandler {
	return &AdminParticipantHandler{service: svc}
}

// ListParticipants handles GET /api/admin/participants requests: all
// participants with their redeemed coupon, newest first.
func (h *AdminParticipantHandler) ListParticipants(c *fiber.Ctx) error {
	participants, err := h.service.ListParticipants(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list participants")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"participants": participants})
}

// ExportParticipants handles GET /api/admin/participants/export requests,
// serving the same projection as a CSV download.
func (h *AdminParticipantHandler) ExportParticipants(c *fiber.Ctx) error {
	participants, err := h.service.ListParticipants(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to export participants")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	var buf bytes.Buffer
	if err := csvio.WriteParticipants(&buf, participants); err != nil {
		log.Error().Err(err).Msg("failed to serialize participant csv")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="participants.csv"`)
	return c.Send(buf.Bytes())
}
