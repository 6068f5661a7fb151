package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/internal/service"
	"github.com/AZ-BB/dutch-spinner/internal/validator"
)

// mockInventoryService is a mock implementation of InventoryServiceInterface.
type mockInventoryService struct {
	importCodesFn  func(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error)
	listCouponsFn  func(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error)
	deleteCouponFn func(ctx context.Context, id int64) error
}

func (m *mockInventoryService) ImportCodes(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error) {
	if m.importCodesFn != nil {
		return m.importCodesFn(ctx, prizeType, codes)
	}
	return &model.ImportResult{Duplicates: []string{}, Errors: []string{}}, nil
}

func (m *mockInventoryService) ListCoupons(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
	if m.listCouponsFn != nil {
		return m.listCouponsFn(ctx, filter)
	}
	return []model.Coupon{}, nil
}

func (m *mockInventoryService) DeleteCoupon(ctx context.Context, id int64) error {
	if m.deleteCouponFn != nil {
		return m.deleteCouponFn(ctx, id)
	}
	return nil
}

func setupAdminCouponTestApp(mockSvc *mockInventoryService) *fiber.App {
	app := fiber.New()
	h := NewAdminCouponHandler(mockSvc, validator.New())
	app.Get("/api/admin/coupons", h.ListCoupons)
	app.Post("/api/admin/coupons", h.ImportCoupons)
	app.Post("/api/admin/coupons/import", h.ImportCouponsCSV)
	app.Delete("/api/admin/coupons/:id", h.DeleteCoupon)
	return app
}

func TestListCoupons_Filters(t *testing.T) {
	var capturedFilter model.CouponFilter
	mockSvc := &mockInventoryService{
		listCouponsFn: func(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
			capturedFilter = filter
			return []model.Coupon{}, nil
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons?used=false&type=50_CREDIT", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, capturedFilter.Used)
	assert.False(t, *capturedFilter.Used)
	require.NotNil(t, capturedFilter.Type)
	assert.Equal(t, model.PrizeCredit50, *capturedFilter.Type)
}

func TestListCoupons_InvalidType(t *testing.T) {
	app := setupAdminCouponTestApp(&mockInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons?type=FREE_CAR", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestImportCoupons_Batch(t *testing.T) {
	mockSvc := &mockInventoryService{
		importCodesFn: func(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error) {
			assert.Equal(t, model.PrizeCredit50, prizeType)
			assert.Equal(t, []string{"A1", "A1", "B2"}, codes)
			return &model.ImportResult{Imported: 2, Skipped: 1, Duplicates: []string{"A1"}, Errors: []string{}}, nil
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	body := `{"type": "50_CREDIT", "codes": ["A1", "A1", "B2"]}`
	resp := postJSON(t, app, "/api/admin/coupons", body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeJSON(t, resp)
	assert.Equal(t, float64(2), result["imported"])
	assert.Equal(t, float64(1), result["skipped"])
	assert.Equal(t, []any{"A1"}, result["duplicates"])
}

func TestImportCoupons_SingleDuplicateConflict(t *testing.T) {
	mockSvc := &mockInventoryService{
		importCodesFn: func(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error) {
			return &model.ImportResult{Imported: 0, Skipped: 1, Duplicates: []string{"A1"}, Errors: []string{}}, nil
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	body := `{"type": "50_CREDIT", "codes": ["A1"]}`
	resp := postJSON(t, app, "/api/admin/coupons", body)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	result := decodeJSON(t, resp)
	assert.Equal(t, "code already exists", result["error"])
}

func TestImportCoupons_InvalidType(t *testing.T) {
	app := setupAdminCouponTestApp(&mockInventoryService{})

	body := `{"type": "FREE_CAR", "codes": ["A1"]}`
	resp := postJSON(t, app, "/api/admin/coupons", body)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestImportCoupons_NoCodes(t *testing.T) {
	app := setupAdminCouponTestApp(&mockInventoryService{})

	body := `{"type": "50_CREDIT", "codes": []}`
	resp := postJSON(t, app, "/api/admin/coupons", body)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	result := decodeJSON(t, resp)
	assert.Equal(t, "no codes provided", result["error"])
}

func TestImportCouponsCSV_ParsesHeaderAndDelegates(t *testing.T) {
	var capturedCodes []string
	mockSvc := &mockInventoryService{
		importCodesFn: func(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error) {
			capturedCodes = codes
			return &model.ImportResult{Imported: len(codes), Duplicates: []string{}, Errors: []string{}}, nil
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	csvBody := "promocode\nKORTING15-A1\nKORTING15-B2\n"
	req := httptest.NewRequest(http.MethodPost, "/api/admin/coupons/import?type=15_OFF", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"KORTING15-A1", "KORTING15-B2"}, capturedCodes)
}

func TestImportCouponsCSV_EmptyFile(t *testing.T) {
	app := setupAdminCouponTestApp(&mockInventoryService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/coupons/import?type=15_OFF", strings.NewReader("promocode\n"))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteCoupon_Success(t *testing.T) {
	var deletedID int64
	mockSvc := &mockInventoryService{
		deleteCouponFn: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/coupons/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(7), deletedID)
}

func TestDeleteCoupon_NotFound(t *testing.T) {
	mockSvc := &mockInventoryService{
		deleteCouponFn: func(ctx context.Context, id int64) error {
			return service.ErrCouponNotFound
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/coupons/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteCoupon_UsedConflict(t *testing.T) {
	mockSvc := &mockInventoryService{
		deleteCouponFn: func(ctx context.Context, id int64) error {
			return service.ErrCouponUsed
		},
	}
	app := setupAdminCouponTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/coupons/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	result := decodeJSON(t, resp)
	assert.Equal(t, "cannot delete a used coupon", result["error"])
}

func TestDeleteCoupon_InvalidID(t *testing.T) {
	app := setupAdminCouponTestApp(&mockInventoryService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/coupons/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
