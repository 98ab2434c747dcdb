package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Dan9191/mortgage-service/internal/calculator"
	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoYearSchedule(t *testing.T) (models.Mortgage, []models.ScheduleEntry, models.Summary) {
	t.Helper()
	m := models.Mortgage{
		InitialBalance: decimal.NewFromInt(12000),
		Products:       []models.Product{{Years: 2, APR: decimal.Zero}},
	}
	schedule, err := calculator.Schedule(m)
	require.NoError(t, err)
	return m, schedule, calculator.Summarize(m, schedule)
}

func TestWriteSchedule(t *testing.T) {
	m, schedule, summary := twoYearSchedule(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSchedule(&buf, m, schedule, summary))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "Month : 1/1  Pay : 500.00 Remaining : 11500.00 CapRemaining : 11500.00 CapContrib : 500.00 IntContrib : 0.00", lines[0])
	assert.True(t, strings.HasPrefix(lines[23], "Month : 2/12 Pay : 500.00"))
	assert.Equal(t, "Capital Amount : 12000.00 Term : 2 Total Payment : 12000.00", lines[24])
}

func TestWriteSummary(t *testing.T) {
	_, _, summary := twoYearSchedule(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "Term : 2 years (24 payments)")
	assert.Contains(t, out, "Product 1 : 2 years at 0% from 1/1, monthly payment 500.00")
	assert.Contains(t, out, "Total Interest : 0.00")
}

func TestWriteCSV(t *testing.T) {
	_, schedule, _ := twoYearSchedule(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, schedule))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "year,month,apr,payment,remaining_total,remaining_principal,principal_paid,interest_paid", lines[0])
	assert.Equal(t, "1,1,0,500.00,11500.00,11500.00,500.00,0.00", lines[1])
	assert.Equal(t, "2,12,0,500.00,0.00,0.00,500.00,0.00", lines[24])
}
