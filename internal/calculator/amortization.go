package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidMortgage is returned for mortgages that cannot be amortized
	ErrInvalidMortgage = errors.New("invalid mortgage")
	// ErrNumericOverflow is returned when a payment formula leaves the float64 range
	ErrNumericOverflow = errors.New("numeric overflow")
)

// Validate checks a mortgage before any month is simulated
func Validate(m models.Mortgage) error {
	if !m.InitialBalance.IsPositive() {
		return fmt.Errorf("%w: initial balance must be positive, got %s", ErrInvalidMortgage, m.InitialBalance)
	}
	if len(m.Products) == 0 {
		return fmt.Errorf("%w: at least one product is required", ErrInvalidMortgage)
	}
	months := 0
	for i, p := range m.Products {
		if p.Years <= 0 {
			return fmt.Errorf("%w: product %d must last at least one year, got %d", ErrInvalidMortgage, i+1, p.Years)
		}
		if p.APR.IsNegative() {
			return fmt.Errorf("%w: product %d has negative APR %s", ErrInvalidMortgage, i+1, p.APR)
		}
		// the combined term must fit in an int count of months
		if p.Years > (math.MaxInt-months)/12 {
			return fmt.Errorf("%w: combined term of %d products is too long", ErrInvalidMortgage, len(m.Products))
		}
		months += p.Years * 12
	}
	return nil
}

// Schedule computes the month by month repayment schedule of a mortgage.
//
// Each product gets a fixed payment derived from the principal outstanding when it
// starts and the months left in the whole loan, not only in that product. Month
// level amounts are decimals rounded to 2 places as they are computed. The last
// month of the loan repays whatever principal is left so the schedule ends at zero.
func Schedule(m models.Mortgage) ([]models.ScheduleEntry, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}

	totalMonths := m.TermMonths()
	monthsRemaining := totalMonths
	balance := m.InitialBalance
	year, month := 1, 1

	schedule := make([]models.ScheduleEntry, 0, totalMonths)
	for i, product := range m.Products {
		rate := product.MonthlyRate()

		// projected cost if this product ran to the end of the loan
		totalDue, err := TotalPaymentDue(balance, rate, monthsRemaining)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		payment, err := MonthlyPayment(balance, rate, monthsRemaining)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}

		for n := 0; n < product.Months(); n++ {
			interest := MonthlyInterest(balance, rate)
			principal := payment.Sub(interest)
			paid := payment

			if len(schedule) == totalMonths-1 {
				principal = balance
				paid = principal.Add(interest)
			}

			totalDue = totalDue.Sub(paid)
			balance = balance.Sub(principal)

			schedule = append(schedule, models.ScheduleEntry{
				Year:               year,
				Month:              month,
				Product:            product,
				Payment:            paid,
				RemainingTotal:     totalDue,
				RemainingPrincipal: balance,
				PrincipalPaid:      principal,
				InterestPaid:       interest,
			})

			year, month = nextMonth(year, month)
			monthsRemaining--
		}
	}

	return schedule, nil
}

// MonthlyPayment returns the fixed payment that amortizes balance over months:
//
//	balance * r(1+r)^n / ((1+r)^n - 1)
//
// A zero rate falls back to an even split of the balance.
func MonthlyPayment(balance, monthlyRate decimal.Decimal, months int) (decimal.Decimal, error) {
	if monthlyRate.IsZero() {
		return round(balance.Div(decimal.NewFromInt(int64(months)))), nil
	}

	b := balance.InexactFloat64()
	r := monthlyRate.InexactFloat64()
	factor := math.Pow(1+r, float64(months))

	return fromFloat(b * (r * factor / (factor - 1)))
}

// TotalPaymentDue returns the undiscounted sum of months payments that amortize
// balance at monthlyRate:
//
//	(r * balance / (1 - (1+r)^-n)) * n
//
// A zero rate owes exactly the balance.
func TotalPaymentDue(balance, monthlyRate decimal.Decimal, months int) (decimal.Decimal, error) {
	if monthlyRate.IsZero() {
		return round(balance), nil
	}

	b := balance.InexactFloat64()
	r := monthlyRate.InexactFloat64()
	n := float64(months)

	return fromFloat((r * b / (1 - math.Pow(1+r, -n))) * n)
}

// MonthlyInterest returns one month of interest on balance
func MonthlyInterest(balance, monthlyRate decimal.Decimal) decimal.Decimal {
	return round(balance.Mul(monthlyRate))
}

func fromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: payment formula produced %v", ErrNumericOverflow, v)
	}
	return round(decimal.NewFromFloat(v)), nil
}

// round is half-to-even at the cent
func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

func nextMonth(year, month int) (int, int) {
	month++
	if month > 12 {
		return year + 1, 1
	}
	return year, month
}
