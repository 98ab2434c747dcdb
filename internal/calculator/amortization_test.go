package calculator

import (
	"math"
	"testing"

	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mortgage(balance string, products ...models.Product) models.Mortgage {
	return models.Mortgage{InitialBalance: dec(balance), Products: products}
}

func product(years int, apr string) models.Product {
	return models.Product{Years: years, APR: dec(apr)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestSchedule_SingleProduct(t *testing.T) {
	// 500,000 at 4.7% over 25 years
	schedule, err := Schedule(mortgage("500000", product(25, "4.7")))
	require.NoError(t, err)
	require.Len(t, schedule, 300)

	first := schedule[0]
	assert.Equal(t, 1, first.Year)
	assert.Equal(t, 1, first.Month)
	assertDecimal(t, "2836.23", first.Payment, "payment")
	assertDecimal(t, "1958.33", first.InterestPaid, "first interest")
	assertDecimal(t, "877.90", first.PrincipalPaid, "first principal")
	assertDecimal(t, "499122.10", first.RemainingPrincipal, "first remaining principal")
	assertDecimal(t, "848031.68", first.RemainingTotal, "first remaining total")

	for _, e := range schedule[:299] {
		assertDecimal(t, "2836.23", e.Payment, "fixed payment")
	}

	last := schedule[299]
	assert.Equal(t, 25, last.Year)
	assert.Equal(t, 12, last.Month)
	assert.True(t, last.RemainingPrincipal.IsZero(), "final principal should be zero, got %s", last.RemainingPrincipal)
	assertDecimal(t, "11.06", last.InterestPaid, "last interest")
	assertDecimal(t, "2834.17", last.Payment, "closing payment")
}

func TestSchedule_ProductTransition(t *testing.T) {
	// 5 years at 3% followed by 20 years at 5%
	schedule, err := Schedule(mortgage("500000", product(5, "3"), product(20, "5")))
	require.NoError(t, err)
	require.Len(t, schedule, 300)

	assertDecimal(t, "2371.06", schedule[0].Payment, "first product payment")
	assertDecimal(t, "1250.00", schedule[0].InterestPaid, "first interest")
	assert.Equal(t, "3", schedule[59].Product.APR.String())

	endOfFixed := schedule[59]
	assertDecimal(t, "427527.18", endOfFixed.RemainingPrincipal, "principal after 60 months")

	// month 61 re-derives the payment from the carried balance over 240 months
	start := schedule[60]
	assert.Equal(t, 6, start.Year)
	assert.Equal(t, 1, start.Month)
	assert.Equal(t, "5", start.Product.APR.String())
	assertDecimal(t, "2821.49", start.Payment, "second product payment")
	assertDecimal(t, "1781.36", start.InterestPaid, "second product first interest")
	assertDecimal(t, "1040.13", start.PrincipalPaid, "second product first principal")
	assertDecimal(t, "674336.15", start.RemainingTotal, "second product projection")
	assert.True(t,
		endOfFixed.RemainingPrincipal.Sub(start.PrincipalPaid).Equal(start.RemainingPrincipal),
		"principal must carry over the product boundary without a jump",
	)

	expected, err := MonthlyPayment(endOfFixed.RemainingPrincipal, dec("5").Div(dec("1200")), 240)
	require.NoError(t, err)
	assert.True(t, expected.Equal(start.Payment))

	assert.True(t, schedule[299].RemainingPrincipal.IsZero())
}

func TestSchedule_Properties(t *testing.T) {
	cases := []models.Mortgage{
		mortgage("500000", product(25, "4.7")),
		mortgage("500000", product(5, "3"), product(20, "5")),
		mortgage("673857", product(20, "5")),
		mortgage("100000", product(20, "5")),
		mortgage("250000", product(2, "1.99"), product(3, "6.5"), product(30, "4.25")),
	}

	for _, m := range cases {
		schedule, err := Schedule(m)
		require.NoError(t, err)
		require.Len(t, schedule, m.TermMonths())

		prev := m.InitialBalance
		for i, e := range schedule {
			assert.True(t, e.PrincipalPaid.Add(e.InterestPaid).Equal(e.Payment),
				"entry %d: principal %s + interest %s != payment %s", i, e.PrincipalPaid, e.InterestPaid, e.Payment)
			assert.True(t, e.RemainingPrincipal.LessThanOrEqual(prev),
				"entry %d: principal increased from %s to %s", i, prev, e.RemainingPrincipal)
			prev = e.RemainingPrincipal
		}
		assert.True(t, prev.IsZero(), "final principal should be zero, got %s", prev)
	}
}

func TestSchedule_Calendar(t *testing.T) {
	schedule, err := Schedule(mortgage("10000", product(2, "6")))
	require.NoError(t, err)
	require.Len(t, schedule, 24)

	for i := 0; i < 12; i++ {
		assert.Equal(t, 1, schedule[i].Year)
		assert.Equal(t, i+1, schedule[i].Month)
	}
	assert.Equal(t, 2, schedule[12].Year)
	assert.Equal(t, 1, schedule[12].Month)
	assert.Equal(t, 2, schedule[13].Year)
	assert.Equal(t, 2, schedule[13].Month)
	assert.Equal(t, 12, schedule[23].Month)
}

func TestSchedule_RemainingTotalProjection(t *testing.T) {
	schedule, err := Schedule(mortgage("100000", product(1, "12")))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	assertDecimal(t, "8884.88", schedule[0].Payment, "payment")
	assertDecimal(t, "1000.00", schedule[0].InterestPaid, "interest")
	assertDecimal(t, "97733.67", schedule[0].RemainingTotal, "projection")
	for i := 1; i < len(schedule); i++ {
		assert.True(t,
			schedule[i-1].RemainingTotal.Sub(schedule[i].Payment).Equal(schedule[i].RemainingTotal),
			"projection should drop by the payment in month %d", i+1)
	}
	assertDecimal(t, "8884.85", schedule[11].Payment, "closing payment")
}

func TestSchedule_ZeroRate(t *testing.T) {
	schedule, err := Schedule(mortgage("12000", product(1, "0")))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for _, e := range schedule {
		assert.True(t, e.InterestPaid.IsZero())
		assertDecimal(t, "1000", e.PrincipalPaid, "principal")
		assertDecimal(t, "1000", e.Payment, "payment")
	}
	assertDecimal(t, "11000", schedule[0].RemainingTotal, "projection")
	assert.True(t, schedule[11].RemainingPrincipal.IsZero())
}

func TestSchedule_InvalidMortgage(t *testing.T) {
	tests := []struct {
		name     string
		mortgage models.Mortgage
	}{
		{"no products", mortgage("1000")},
		{"zero balance", mortgage("0", product(1, "5"))},
		{"negative balance", mortgage("-1000", product(1, "5"))},
		{"zero years", mortgage("1000", product(1, "5"), product(0, "5"))},
		{"negative years", mortgage("1000", product(-2, "5"))},
		{"negative rate", mortgage("1000", product(1, "-1"))},
		{"years beyond int range", mortgage("1000", product(math.MaxInt, "5"))},
		{"combined years wrap around", mortgage("1000", product(math.MaxInt, "5"), product(math.MaxInt, "5"), product(2, "5"))},
		{"combined months overflow", mortgage("1000", product(math.MaxInt/24+1, "5"), product(math.MaxInt/24+1, "5"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Schedule(tt.mortgage)
			assert.ErrorIs(t, err, ErrInvalidMortgage)
			assert.Nil(t, schedule)
		})
	}
}

func TestSchedule_NumericOverflow(t *testing.T) {
	schedule, err := Schedule(mortgage("100000", product(100, "1000000")))
	assert.ErrorIs(t, err, ErrNumericOverflow)
	assert.Nil(t, schedule)
}

func TestMonthlyPayment(t *testing.T) {
	// 100,000 at 5% over 30 years
	payment, err := MonthlyPayment(dec("100000"), dec("5").Div(dec("1200")), 360)
	require.NoError(t, err)
	assertDecimal(t, "536.82", payment, "payment")

	payment, err = MonthlyPayment(dec("1200"), decimal.Zero, 12)
	require.NoError(t, err)
	assertDecimal(t, "100", payment, "zero rate payment")
}

func TestTotalPaymentDue(t *testing.T) {
	rate := dec("5").Div(dec("1200"))
	total, err := TotalPaymentDue(dec("100000"), rate, 360)
	require.NoError(t, err)

	payment, err := MonthlyPayment(dec("100000"), rate, 360)
	require.NoError(t, err)
	assert.True(t, total.Sub(payment.Mul(decimal.NewFromInt(360))).Abs().LessThan(dec("2")),
		"total %s should be close to 360 payments of %s", total, payment)
}

func TestMonthlyInterest(t *testing.T) {
	assertDecimal(t, "1958.33", MonthlyInterest(dec("500000"), dec("4.7").Div(dec("1200"))), "interest")
	// half-to-even at the cent
	assertDecimal(t, "0.12", MonthlyInterest(dec("12.5"), dec("0.01")), "half-even")
}
