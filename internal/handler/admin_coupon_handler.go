package handler

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/csvio"
	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/internal/service"
)

// InventoryServiceInterface defines the interface for inventory management.
type InventoryServiceInterface interface {
	ImportCodes(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error)
	ListCoupons(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error)
	DeleteCoupon(ctx context.Context, id int64) error
}

// AdminCouponHandler handles the admin inventory endpoints.
type AdminCouponHandler struct {
	service   InventoryServiceInterface
	validator *validator.Validate
}

// NewAdminCouponHandler creates a new AdminCouponHandler with the given service and validator.
func NewAdminCouponHandler(svc InventoryServiceInterface, v *validator.Validate) *AdminCouponHandler {
	return &AdminCouponHandler{service: svc, validator: v}
}

// ListCoupons handles GET /api/admin/coupons requests.
// Optional query params: used=true|false, type=<prize type>.
func (h *AdminCouponHandler) ListCoupons(c *fiber.Ctx) error {
	var filter model.CouponFilter

	if usedParam := c.Query("used"); usedParam != "" {
		used, err := strconv.ParseBool(usedParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid used filter"})
		}
		filter.Used = &used
	}
	if typeParam := c.Query("type"); typeParam != "" {
		prizeType := model.PrizeType(typeParam)
		if !prizeType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon type"})
		}
		filter.Type = &prizeType
	}

	coupons, err := h.service.ListCoupons(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"coupons": coupons})
}

// ImportCoupons handles POST /api/admin/coupons requests: a JSON batch of
// codes for one prize type. A batch of one is the single-code form; a
// duplicate there is answered with 409 instead of a batch report.
func (h *AdminCouponHandler) ImportCoupons(c *fiber.Ctx) error {
	var req model.ImportCouponsRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no codes provided"})
	}
	if !req.Type.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon type"})
	}

	result, err := h.service.ImportCodes(c.Context(), req.Type, req.Codes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no codes provided"})
		}
		log.Error().Err(err).Str("type", string(req.Type)).Msg("failed to import coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if len(req.Codes) == 1 && result.Imported == 0 && result.Skipped == 1 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "code already exists"})
	}

	log.Info().
		Str("type", string(req.Type)).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("coupon import finished")

	return c.JSON(fiber.Map{
		"success":    true,
		"imported":   result.Imported,
		"skipped":    result.Skipped,
		"duplicates": result.Duplicates,
		"errors":     result.Errors,
	})
}

// ImportCouponsCSV handles POST /api/admin/coupons/import?type=<prize type>
// with a raw CSV body. The csv collaborator strips a header row and blank
// lines before the codes reach the import service.
func (h *AdminCouponHandler) ImportCouponsCSV(c *fiber.Ctx) error {
	prizeType := model.PrizeType(c.Query("type"))
	if !prizeType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon type"})
	}

	codes, err := csvio.ParseCodes(bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid csv file"})
	}
	if len(codes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no valid codes found in csv"})
	}

	result, err := h.service.ImportCodes(c.Context(), prizeType, codes)
	if err != nil {
		log.Error().Err(err).Str("type", string(prizeType)).Msg("failed to import coupons from csv")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"imported":   result.Imported,
		"skipped":    result.Skipped,
		"duplicates": result.Duplicates,
		"errors":     result.Errors,
	})
}

// DeleteCoupon handles DELETE /api/admin/coupons/:id requests. Used coupons
// are immutable history and refuse deletion with 409.
func (h *AdminCouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coupon id"})
	}

	if err := h.service.DeleteCoupon(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		if errors.Is(err, service.ErrCouponUsed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "cannot delete a used coupon"})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to delete coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{"success": true})
}
