package models

import "github.com/shopspring/decimal"

// RateType tells how a product's APR is obtained
type RateType string

const (
	// RateFixed uses the APR given in the request
	RateFixed RateType = "fixed"
	// RateKeyRate tracks the central bank key rate plus Margin
	RateKeyRate RateType = "key_rate"
)

var monthlyRateDivisor = decimal.NewFromInt(1200)

// Product is one rate/duration segment of a mortgage term
type Product struct {
	Years    int             `json:"years"`
	APR      decimal.Decimal `json:"apr"`
	RateType RateType        `json:"rate_type,omitempty"`
	Margin   decimal.Decimal `json:"margin"`
}

// Months returns the product duration in whole months
func (p Product) Months() int {
	return p.Years * 12
}

// MonthlyRate returns the APR as a monthly fraction of 1, e.g. 4.7 -> 0.0039166...
func (p Product) MonthlyRate() decimal.Decimal {
	return p.APR.Div(monthlyRateDivisor)
}

// Mortgage is the amount borrowed and the ordered products covering its term
type Mortgage struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Products       []Product       `json:"products"`
}

// TermYears returns the total term covered by all products
func (m Mortgage) TermYears() int {
	years := 0
	for _, p := range m.Products {
		years += p.Years
	}
	return years
}

// TermMonths returns the total term in months
func (m Mortgage) TermMonths() int {
	return m.TermYears() * 12
}
