package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Dan9191/mortgage-service/internal/calculator"
	"github.com/Dan9191/mortgage-service/internal/logging"
	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/Dan9191/mortgage-service/internal/report"
	"github.com/shopspring/decimal"
)

// productFlags collects repeated -product years:apr values
type productFlags []models.Product

func (p *productFlags) String() string {
	parts := make([]string, len(*p))
	for i, pr := range *p {
		parts[i] = fmt.Sprintf("%d:%s", pr.Years, pr.APR)
	}
	return strings.Join(parts, ",")
}

func (p *productFlags) Set(value string) error {
	product, err := parseProduct(value)
	if err != nil {
		return err
	}
	*p = append(*p, product)
	return nil
}

func parseProduct(value string) (models.Product, error) {
	years, apr, ok := strings.Cut(value, ":")
	if !ok {
		return models.Product{}, fmt.Errorf("product %q must look like years:apr", value)
	}
	y, err := strconv.Atoi(years)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid years in %q: %w", value, err)
	}
	rate, err := decimal.NewFromString(apr)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid apr in %q: %w", value, err)
	}
	return models.Product{Years: y, APR: rate, RateType: models.RateFixed}, nil
}

func validateFormat(format string) error {
	switch format {
	case "text", "csv":
		return nil
	}
	return fmt.Errorf("unknown format %q, expected text or csv", format)
}

// sampleMortgages are the reference loans the schedule is checked against
func sampleMortgages() []models.Mortgage {
	p := func(years int, apr string) models.Product {
		return models.Product{Years: years, APR: decimal.RequireFromString(apr), RateType: models.RateFixed}
	}
	return []models.Mortgage{
		{InitialBalance: decimal.NewFromInt(500000), Products: []models.Product{p(25, "4.7")}},
		{InitialBalance: decimal.NewFromInt(500000), Products: []models.Product{p(5, "3"), p(20, "5")}},
		{InitialBalance: decimal.NewFromInt(673857), Products: []models.Product{p(20, "5")}},
		{InitialBalance: decimal.NewFromInt(100000), Products: []models.Product{p(20, "5")}},
	}
}

func main() {
	var products productFlags
	balance := flag.String("balance", "", "Amount borrowed, e.g. 500000")
	flag.Var(&products, "product", "Product as years:apr, repeat in order (e.g. -product 5:3 -product 20:5)")
	scenarios := flag.Bool("scenarios", false, "Print the built-in sample mortgages")
	summaryOnly := flag.Bool("summary", false, "Print only the summary")
	format := flag.String("format", "text", "Output format: text, csv")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	log := logging.New(*logLevel, os.Stderr)
	if err := validateFormat(*format); err != nil {
		log.Fatalf("Invalid -format: %v", err)
	}

	var mortgages []models.Mortgage
	if *scenarios {
		mortgages = sampleMortgages()
	} else {
		amount, err := decimal.NewFromString(*balance)
		if err != nil {
			log.Fatalf("Invalid -balance %q: %v", *balance, err)
		}
		mortgages = []models.Mortgage{{InitialBalance: amount, Products: products}}
	}

	for _, m := range mortgages {
		schedule, err := calculator.Schedule(m)
		if err != nil {
			log.Fatalf("Failed to compute schedule: %v", err)
		}
		summary := calculator.Summarize(m, schedule)
		log.WithField("months", len(schedule)).Debug("Schedule computed")

		switch {
		case *format == "csv":
			err = report.WriteCSV(os.Stdout, schedule)
		case *summaryOnly:
			err = report.WriteSummary(os.Stdout, summary)
		default:
			err = report.WriteSchedule(os.Stdout, m, schedule, summary)
		}
		if err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}
}
