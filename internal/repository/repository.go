package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no calculation matches
var ErrNotFound = errors.New("calculation not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveCalculation stores a calculation for owner and fills in its id and creation time
func (r *Repository) SaveCalculation(ctx context.Context, owner string, calc *models.Calculation) error {
	products, schedule, err := encodeCalculation(calc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO mortgage.calculations (owner, initial_balance, term_years, total_paid, products, schedule, signature, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query,
		owner,
		calc.Mortgage.InitialBalance,
		calc.Summary.TermYears,
		calc.Summary.TotalPaid,
		products,
		schedule,
		calc.Signature,
	).Scan(&calc.ID, &calc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// FindCalculationByID retrieves one of owner's calculations with its schedule
func (r *Repository) FindCalculationByID(ctx context.Context, owner string, id int64) (*models.Calculation, error) {
	calc := &models.Calculation{}
	var products, schedule []byte
	query := `
		SELECT id, initial_balance, products, schedule, signature, created_at
		FROM mortgage.calculations
		WHERE id = $1 AND owner = $2`
	err := r.db.QueryRowContext(ctx, query, id, owner).
		Scan(&calc.ID, &calc.Mortgage.InitialBalance, &products, &schedule, &calc.Signature, &calc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find calculation: %w", err)
	}

	if err := decodeCalculation(calc, products, schedule); err != nil {
		return nil, err
	}
	return calc, nil
}

// CalculationHeader is a calculation listed without its schedule
type CalculationHeader struct {
	ID             int64           `json:"id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	TermYears      int             `json:"term_years"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	CreatedAt      string          `json:"created_at"`
}

// ListCalculations returns owner's most recent calculations, newest first
func (r *Repository) ListCalculations(ctx context.Context, owner string, limit int) ([]CalculationHeader, error) {
	query := `
		SELECT id, initial_balance, term_years, total_paid, to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS')
		FROM mortgage.calculations
		WHERE owner = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	headers := []CalculationHeader{}
	for rows.Next() {
		var h CalculationHeader
		if err := rows.Scan(&h.ID, &h.InitialBalance, &h.TermYears, &h.TotalPaid, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	return headers, nil
}

func encodeCalculation(calc *models.Calculation) ([]byte, []byte, error) {
	products, err := json.Marshal(calc.Mortgage.Products)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode products: %w", err)
	}
	schedule, err := json.Marshal(calc.Schedule)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return products, schedule, nil
}

func decodeCalculation(calc *models.Calculation, products, schedule []byte) error {
	if err := json.Unmarshal(products, &calc.Mortgage.Products); err != nil {
		return fmt.Errorf("failed to decode products: %w", err)
	}
	if err := json.Unmarshal(schedule, &calc.Schedule); err != nil {
		return fmt.Errorf("failed to decode schedule: %w", err)
	}
	return nil
}
