package models

import "github.com/shopspring/decimal"

// ScheduleEntry represents one month of a repayment schedule
type ScheduleEntry struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	Product            Product         `json:"product"`
	Payment            decimal.Decimal `json:"payment"`
	RemainingTotal     decimal.Decimal `json:"remaining_total"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
}

// ProductPayment is the fixed monthly payment derived for one product
type ProductPayment struct {
	Product    Product         `json:"product"`
	StartYear  int             `json:"start_year"`
	StartMonth int             `json:"start_month"`
	Payment    decimal.Decimal `json:"payment"`
}

// Summary aggregates a schedule
type Summary struct {
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	TermYears      int              `json:"term_years"`
	Payments       int              `json:"payments"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	TotalInterest  decimal.Decimal  `json:"total_interest"`
	TotalPrincipal decimal.Decimal  `json:"total_principal"`
	ProductPayment []ProductPayment `json:"product_payments"`
}
