// Package csvio holds the CSV collaborators around the coupon engine:
// extracting code candidates from an uploaded file and serializing the
// participant projection for download. The engine itself never sees CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/AZ-BB/dutch-spinner/internal/model"
)

// ParseCodes extracts trimmed coupon codes from CSV text. Only the first
// column is read. A first row containing "promocode" (case-insensitive) is
// treated as a header and skipped. Blank rows are dropped.
func ParseCodes(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may have trailing columns, ignore them
	cr.TrimLeadingSpace = true

	codes := []string{}
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row+1, err)
		}
		row++

		if len(record) == 0 {
			continue
		}
		code := strings.TrimSpace(record[0])
		if row == 1 && strings.Contains(strings.ToLower(code), "promocode") {
			continue // header row
		}
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// participantHeader is the column layout of the participant export.
var participantHeader = []string{
	"email", "first_name", "last_name", "registered_at",
	"prize_type", "prize_name", "coupon_code", "won_at",
}

// WriteParticipants serializes the participant projection as CSV.
// Participants without a redemption get empty prize columns.
func WriteParticipants(w io.Writer, participants []model.ParticipantWithCoupon) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(participantHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range participants {
		record := []string{
			p.Email,
			p.FirstName,
			p.LastName,
			p.RegisteredAt.Format("2006-01-02 15:04:05"),
		}
		if p.CouponType != nil {
			record = append(record, string(*p.CouponType))
		} else {
			record = append(record, "")
		}
		record = append(record, strPtr(p.CouponName), strPtr(p.CouponCode))
		if p.WonAt != nil {
			record = append(record, p.WonAt.Format("2006-01-02 15:04:05"))
		} else {
			record = append(record, "")
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", p.Email, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
