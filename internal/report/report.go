package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Dan9191/mortgage-service/internal/models"
)

// WriteSchedule prints one line per month followed by a totals line
func WriteSchedule(w io.Writer, m models.Mortgage, schedule []models.ScheduleEntry, summary models.Summary) error {
	for _, e := range schedule {
		_, err := fmt.Fprintf(w, "Month : %d/%-2d Pay : %s Remaining : %s CapRemaining : %s CapContrib : %s IntContrib : %s\n",
			e.Year, e.Month,
			e.Payment.StringFixed(2),
			e.RemainingTotal.StringFixed(2),
			e.RemainingPrincipal.StringFixed(2),
			e.PrincipalPaid.StringFixed(2),
			e.InterestPaid.StringFixed(2),
		)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Capital Amount : %s Term : %d Total Payment : %s\n\n",
		m.InitialBalance.StringFixed(2), summary.TermYears, summary.TotalPaid.StringFixed(2))
	return err
}

// WriteSummary prints the per-product payments and totals of a schedule
func WriteSummary(w io.Writer, summary models.Summary) error {
	fmt.Fprintf(w, "Capital Amount : %s\n", summary.InitialBalance.StringFixed(2))
	fmt.Fprintf(w, "Term : %d years (%d payments)\n", summary.TermYears, summary.Payments)
	for i, p := range summary.ProductPayment {
		fmt.Fprintf(w, "Product %d : %d years at %s%% from %d/%d, monthly payment %s\n",
			i+1, p.Product.Years, p.Product.APR.String(), p.StartYear, p.StartMonth, p.Payment.StringFixed(2))
	}
	fmt.Fprintf(w, "Total Interest : %s\n", summary.TotalInterest.StringFixed(2))
	_, err := fmt.Fprintf(w, "Total Payment : %s\n", summary.TotalPaid.StringFixed(2))
	return err
}

var csvHeader = []string{
	"year", "month", "apr", "payment", "remaining_total",
	"remaining_principal", "principal_paid", "interest_paid",
}

// WriteCSV writes the schedule as CSV with a header row
func WriteCSV(w io.Writer, schedule []models.ScheduleEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range schedule {
		record := []string{
			strconv.Itoa(e.Year),
			strconv.Itoa(e.Month),
			e.Product.APR.String(),
			e.Payment.StringFixed(2),
			e.RemainingTotal.StringFixed(2),
			e.RemainingPrincipal.StringFixed(2),
			e.PrincipalPaid.StringFixed(2),
			e.InterestPaid.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
