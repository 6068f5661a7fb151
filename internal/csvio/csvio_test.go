package csvio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AZ-BB/dutch-spinner/internal/model"
)

func TestParseCodes_SkipsPromocodeHeader(t *testing.T) {
	input := "Promocode\nPONCHO-2024-A1B2\nPONCHO-2024-C3D4\n"

	codes, err := ParseCodes(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"PONCHO-2024-A1B2", "PONCHO-2024-C3D4"}, codes)
}

func TestParseCodes_NoHeader(t *testing.T) {
	// First row that is not a header must be kept
	input := "SHOP50-2024-A1B2\nSHOP50-2024-C3D4\n"

	codes, err := ParseCodes(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"SHOP50-2024-A1B2", "SHOP50-2024-C3D4"}, codes)
}

func TestParseCodes_FirstColumnOnly(t *testing.T) {
	input := "promocode,added_by\nKORTING15-A1,erik\nKORTING15-B2,erik\n"

	codes, err := ParseCodes(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"KORTING15-A1", "KORTING15-B2"}, codes)
}

func TestParseCodes_TrimsAndDropsBlankRows(t *testing.T) {
	input := "  CODE-1  \n\n   \nCODE-2\n"

	codes, err := ParseCodes(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"CODE-1", "CODE-2"}, codes)
}

func TestParseCodes_Empty(t *testing.T) {
	codes, err := ParseCodes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestWriteParticipants(t *testing.T) {
	registered := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	won := time.Date(2024, 6, 1, 10, 31, 12, 0, time.UTC)
	prizeType := model.PrizeCredit50
	code := "SHOP50-2024-A1B2"
	name := "€50 shoptegoed"

	participants := []model.ParticipantWithCoupon{
		{
			Email:        "anna@example.com",
			FirstName:    "Anna",
			LastName:     "de Vries",
			RegisteredAt: registered,
			CouponType:   &prizeType,
			CouponCode:   &code,
			CouponName:   &name,
			WonAt:        &won,
		},
		{
			Email:        "bram@example.com",
			FirstName:    "Bram",
			LastName:     "Jansen",
			RegisteredAt: registered,
		},
	}

	var sb strings.Builder
	err := WriteParticipants(&sb, participants)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email,first_name,last_name,registered_at,prize_type,prize_name,coupon_code,won_at", lines[0])
	assert.Equal(t, "anna@example.com,Anna,de Vries,2024-06-01 10:30:00,50_CREDIT,€50 shoptegoed,SHOP50-2024-A1B2,2024-06-01 10:31:12", lines[1])
	assert.Equal(t, "bram@example.com,Bram,Jansen,2024-06-01 10:30:00,,,,", lines[2])
}
