package calculator

import (
	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/shopspring/decimal"
)

// Summarize totals a schedule produced by Schedule for m
func Summarize(m models.Mortgage, schedule []models.ScheduleEntry) models.Summary {
	summary := models.Summary{
		InitialBalance: m.InitialBalance,
		TermYears:      m.TermYears(),
		Payments:       len(schedule),
		TotalPaid:      decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
		ProductPayment: []models.ProductPayment{},
	}

	offset := 0
	for _, p := range m.Products {
		if offset < len(schedule) {
			first := schedule[offset]
			summary.ProductPayment = append(summary.ProductPayment, models.ProductPayment{
				Product:    p,
				StartYear:  first.Year,
				StartMonth: first.Month,
				Payment:    first.Payment,
			})
		}
		offset += p.Months()
	}

	for _, e := range schedule {
		summary.TotalPaid = summary.TotalPaid.Add(e.Payment)
		summary.TotalInterest = summary.TotalInterest.Add(e.InterestPaid)
		summary.TotalPrincipal = summary.TotalPrincipal.Add(e.PrincipalPaid)
	}

	return summary
}
