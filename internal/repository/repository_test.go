package repository

import (
	"testing"

	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCalculation_RestoresStoredColumns(t *testing.T) {
	calc := &models.Calculation{
		Mortgage: models.Mortgage{
			InitialBalance: decimal.NewFromInt(1000),
			Products:       []models.Product{{Years: 1, APR: decimal.RequireFromString("4.5"), RateType: models.RateFixed}},
		},
		Schedule: []models.ScheduleEntry{{
			Year:               1,
			Month:              1,
			Payment:            decimal.RequireFromString("85.38"),
			RemainingPrincipal: decimal.RequireFromString("918.37"),
			PrincipalPaid:      decimal.RequireFromString("81.63"),
			InterestPaid:       decimal.RequireFromString("3.75"),
		}},
	}

	products, schedule, err := encodeCalculation(calc)
	require.NoError(t, err)

	loaded := &models.Calculation{}
	require.NoError(t, decodeCalculation(loaded, products, schedule))

	require.Len(t, loaded.Mortgage.Products, 1)
	assert.True(t, loaded.Mortgage.Products[0].APR.Equal(decimal.RequireFromString("4.5")))
	require.Len(t, loaded.Schedule, 1)
	assert.True(t, loaded.Schedule[0].InterestPaid.Equal(decimal.RequireFromString("3.75")))
}

func TestDecodeCalculation_CorruptColumn(t *testing.T) {
	err := decodeCalculation(&models.Calculation{}, []byte(`[]`), []byte(`{not json`))
	assert.ErrorContains(t, err, "failed to decode schedule")
}
