package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/Dan9191/mortgage-service/internal/models"
)

// SignSchedule generates an HMAC over a mortgage and its schedule.
// Amounts are written with fixed precision so the signature survives a trip
// through NUMERIC and JSONB columns.
func SignSchedule(m models.Mortgage, schedule []models.ScheduleEntry, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	writeMortgage(h, m)
	for _, e := range schedule {
		fmt.Fprintf(h, "%d/%d|%d|%s|%s|%s|%s|%s|%s\n",
			e.Year, e.Month,
			e.Product.Years, e.Product.APR.String(),
			e.Payment.StringFixed(2),
			e.RemainingTotal.StringFixed(2),
			e.RemainingPrincipal.StringFixed(2),
			e.PrincipalPaid.StringFixed(2),
			e.InterestPaid.StringFixed(2),
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySchedule reports whether signature matches the mortgage and schedule
func VerifySchedule(m models.Mortgage, schedule []models.ScheduleEntry, signature, secret string) bool {
	expected := SignSchedule(m, schedule, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func writeMortgage(h hash.Hash, m models.Mortgage) {
	fmt.Fprintf(h, "%s\n", m.InitialBalance.StringFixed(2))
	for _, p := range m.Products {
		fmt.Fprintf(h, "%d|%s|%s|%s\n", p.Years, p.APR.String(), p.RateType, p.Margin.String())
	}
}
