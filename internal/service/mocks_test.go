package service

import (
	"context"

	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/Dan9191/mortgage-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveCalculation(ctx context.Context, owner string, calc *models.Calculation) error {
	args := m.Called(ctx, owner, calc)
	return args.Error(0)
}

func (m *mockStore) FindCalculationByID(ctx context.Context, owner string, id int64) (*models.Calculation, error) {
	args := m.Called(ctx, owner, id)
	calc, _ := args.Get(0).(*models.Calculation)
	return calc, args.Error(1)
}

func (m *mockStore) ListCalculations(ctx context.Context, owner string, limit int) ([]repository.CalculationHeader, error) {
	args := m.Called(ctx, owner, limit)
	headers, _ := args.Get(0).([]repository.CalculationHeader)
	return headers, args.Error(1)
}

type mockRates struct {
	mock.Mock
}

func (m *mockRates) GetKeyRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendScheduleSummary(to string, calc *models.Calculation) error {
	args := m.Called(to, calc)
	return args.Error(0)
}
