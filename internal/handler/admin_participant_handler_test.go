package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AZ-BB/dutch-spinner/internal/model"
)

// mockParticipantListing is a mock implementation of ParticipantListingInterface.
type mockParticipantListing struct {
	listFn func(ctx context.Context) ([]model.ParticipantWithCoupon, error)
}

func (m *mockParticipantListing) ListParticipants(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.ParticipantWithCoupon{}, nil
}

func setupAdminParticipantTestApp(mockSvc *mockParticipantListing) *fiber.App {
	app := fiber.New()
	h := NewAdminParticipantHandler(mockSvc)
	app.Get("/api/admin/participants", h.ListParticipants)
	app.Get("/api/admin/participants/export", h.ExportParticipants)
	return app
}

func sampleParticipants() []model.ParticipantWithCoupon {
	registered := time.Date(2024, 11, 5, 10, 30, 0, 0, time.UTC)
	won := time.Date(2024, 11, 5, 10, 31, 12, 0, time.UTC)
	code := "PONCHO-2024-A1B2"
	name := "HEMA regenponcho"
	prizeType := model.PrizeRainPoncho
	return []model.ParticipantWithCoupon{
		{ID: 2, Email: "bram@example.com", FirstName: "Bram", LastName: "Jansen", RegisteredAt: registered},
		{ID: 1, Email: "anna@example.com", FirstName: "Anna", LastName: "de Vries", RegisteredAt: registered,
			CouponType: &prizeType, CouponCode: &code, CouponName: &name, WonAt: &won},
	}
}

func TestAdminListParticipants_Success(t *testing.T) {
	mockSvc := &mockParticipantListing{
		listFn: func(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
			return sampleParticipants(), nil
		},
	}
	app := setupAdminParticipantTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/participants", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeJSON(t, resp)
	participants, ok := result["participants"].([]any)
	require.True(t, ok)
	require.Len(t, participants, 2)

	first := participants[0].(map[string]any)
	assert.Equal(t, "bram@example.com", first["email"])
	assert.Nil(t, first["coupon_code"])

	second := participants[1].(map[string]any)
	assert.Equal(t, "PONCHO-2024-A1B2", second["coupon_code"])
	assert.Equal(t, "HEMA_regenponcho", second["coupon_type"])
}

func TestAdminListParticipants_Error(t *testing.T) {
	mockSvc := &mockParticipantListing{
		listFn: func(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
			return nil, assert.AnError
		},
	}
	app := setupAdminParticipantTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/participants", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestExportParticipants_CSVDownload(t *testing.T) {
	mockSvc := &mockParticipantListing{
		listFn: func(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
			return sampleParticipants(), nil
		},
	}
	app := setupAdminParticipantTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/participants/export", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="participants.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email,first_name,last_name,registered_at,prize_type,prize_name,coupon_code,won_at", lines[0])
	assert.Contains(t, lines[1], "bram@example.com")
	assert.Contains(t, lines[2], "PONCHO-2024-A1B2")
	assert.Contains(t, lines[2], "2024-11-05 10:31:12")
}

func TestExportParticipants_Error(t *testing.T) {
	mockSvc := &mockParticipantListing{
		listFn: func(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
			return nil, assert.AnError
		},
	}
	app := setupAdminParticipantTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/participants/export", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
