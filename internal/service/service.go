package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Dan9191/mortgage-service/internal/cache"
	"github.com/Dan9191/mortgage-service/internal/calculator"
	"github.com/Dan9191/mortgage-service/internal/config"
	"github.com/Dan9191/mortgage-service/internal/metrics"
	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/Dan9191/mortgage-service/internal/repository"
	"github.com/Dan9191/mortgage-service/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidRequest covers input rejected before the engine runs
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTampered is returned when a stored schedule no longer matches its signature
	ErrTampered = errors.New("stored calculation failed signature check")
	// ErrRateUnavailable is returned when the key rate cannot be obtained
	ErrRateUnavailable = errors.New("key rate unavailable")
)

// Store persists calculations
type Store interface {
	SaveCalculation(ctx context.Context, owner string, calc *models.Calculation) error
	FindCalculationByID(ctx context.Context, owner string, id int64) (*models.Calculation, error)
	ListCalculations(ctx context.Context, owner string, limit int) ([]repository.CalculationHeader, error)
}

// RateSource provides the variable rate products track
type RateSource interface {
	GetKeyRate(ctx context.Context) (decimal.Decimal, error)
}

// Mailer delivers calculations by email
type Mailer interface {
	SendScheduleSummary(to string, calc *models.Calculation) error
}

// Service handles business logic
type Service struct {
	store   Store
	cache   cache.Cache
	rates   RateSource
	mailer  Mailer
	metrics *metrics.Metrics
	log     *logrus.Logger
	config  *config.Config
}

// NewService initializes a new service
func NewService(store Store, c cache.Cache, rates RateSource, mailer Mailer, m *metrics.Metrics, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:   store,
		cache:   c,
		rates:   rates,
		mailer:  mailer,
		metrics: m,
		log:     log,
		config:  cfg,
	}
}

// CalculateSchedule resolves variable rates and computes the repayment schedule,
// serving repeated requests from the cache
func (s *Service) CalculateSchedule(ctx context.Context, m models.Mortgage) (*models.Calculation, error) {
	if err := checkLimits(m); err != nil {
		s.metrics.ScheduleErrors.WithLabelValues("limits").Inc()
		return nil, err
	}

	resolved, err := s.resolveRates(ctx, m)
	if err != nil {
		reason := "rates"
		if errors.Is(err, ErrRateUnavailable) {
			reason = "rate_unavailable"
		}
		s.metrics.ScheduleErrors.WithLabelValues(reason).Inc()
		return nil, err
	}

	key := scheduleCacheKey(resolved)
	if calc, ok := s.cachedCalculation(ctx, key); ok {
		return calc, nil
	}

	start := time.Now()
	schedule, err := calculator.Schedule(resolved)
	s.metrics.ScheduleDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "internal"
		switch {
		case errors.Is(err, calculator.ErrInvalidMortgage):
			reason = "invalid"
		case errors.Is(err, calculator.ErrNumericOverflow):
			reason = "overflow"
		}
		s.metrics.ScheduleErrors.WithLabelValues(reason).Inc()
		return nil, fmt.Errorf("failed to compute schedule: %w", err)
	}
	s.metrics.SchedulesComputed.Inc()

	calc := &models.Calculation{
		Mortgage: resolved,
		Summary:  calculator.Summarize(resolved, schedule),
		Schedule: schedule,
	}

	if raw, err := json.Marshal(calc); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.config.CacheTTL); err != nil {
			s.log.Warnf("Failed to cache schedule: %v", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"initial_balance": resolved.InitialBalance.String(),
		"products":        len(resolved.Products),
		"months":          len(schedule),
		"total_paid":      calc.Summary.TotalPaid.String(),
	}).Info("Schedule computed")
	return calc, nil
}

// SaveCalculation computes, signs and stores a schedule for owner
func (s *Service) SaveCalculation(ctx context.Context, owner string, m models.Mortgage) (*models.Calculation, error) {
	calc, err := s.CalculateSchedule(ctx, m)
	if err != nil {
		return nil, err
	}

	calc.Cached = false
	calc.Signature = utils.SignSchedule(calc.Mortgage, calc.Schedule, s.config.SigningSecret)
	if err := s.store.SaveCalculation(ctx, owner, calc); err != nil {
		return nil, err
	}

	s.log.Infof("Calculation %d saved for user %s", calc.ID, owner)
	return calc, nil
}

// GetCalculation loads one of owner's calculations and checks its signature
func (s *Service) GetCalculation(ctx context.Context, owner string, id int64) (*models.Calculation, error) {
	calc, err := s.store.FindCalculationByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if !utils.VerifySchedule(calc.Mortgage, calc.Schedule, calc.Signature, s.config.SigningSecret) {
		s.log.Errorf("Calculation %d failed signature check", id)
		return nil, ErrTampered
	}

	calc.Summary = calculator.Summarize(calc.Mortgage, calc.Schedule)
	return calc, nil
}

// ListCalculations returns owner's recent calculations
func (s *Service) ListCalculations(ctx context.Context, owner string, limit int) ([]repository.CalculationHeader, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.store.ListCalculations(ctx, owner, limit)
}

// EmailCalculation sends one of owner's calculations to the given address
func (s *Service) EmailCalculation(ctx context.Context, owner string, id int64, to string) error {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("%w: invalid email address %q", ErrInvalidRequest, to)
	}

	calc, err := s.GetCalculation(ctx, owner, id)
	if err != nil {
		return err
	}

	return s.mailer.SendScheduleSummary(addr.Address, calc)
}

// KeyRate returns the key rate with bank margin, from cache when fresh
func (s *Service) KeyRate(ctx context.Context) (decimal.Decimal, error) {
	if raw, ok, err := s.cache.Get(ctx, keyRateCacheKey); err != nil {
		s.log.Warnf("Failed to read cached key rate: %v", err)
	} else if ok {
		if rate, err := decimal.NewFromString(raw); err == nil {
			return rate, nil
		}
	}
	return s.RefreshKeyRate(ctx)
}

// RefreshKeyRate fetches the key rate from the source and caches it
func (s *Service) RefreshKeyRate(ctx context.Context) (decimal.Decimal, error) {
	rate, err := s.rates.GetKeyRate(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	if err := s.cache.Set(ctx, keyRateCacheKey, rate.String(), keyRateTTL); err != nil {
		s.log.Warnf("Failed to cache key rate: %v", err)
	}
	s.metrics.KeyRate.Set(rate.InexactFloat64())
	return rate, nil
}

func (s *Service) resolveRates(ctx context.Context, m models.Mortgage) (models.Mortgage, error) {
	resolved := models.Mortgage{
		InitialBalance: m.InitialBalance,
		Products:       make([]models.Product, len(m.Products)),
	}

	for i, p := range m.Products {
		switch p.RateType {
		case "", models.RateFixed:
			p.RateType = models.RateFixed
			p.Margin = decimal.Zero
		case models.RateKeyRate:
			rate, err := s.KeyRate(ctx)
			if err != nil {
				return models.Mortgage{}, err
			}
			p.APR = rate.Add(p.Margin)
		default:
			return models.Mortgage{}, fmt.Errorf("%w: product %d has unknown rate type %q", ErrInvalidRequest, i+1, p.RateType)
		}

		if p.APR.GreaterThan(MaxAPR) {
			return models.Mortgage{}, fmt.Errorf("%w: product %d APR %s exceeds %s%%", ErrInvalidRequest, i+1, p.APR, MaxAPR)
		}
		resolved.Products[i] = p
	}

	return resolved, nil
}

func (s *Service) cachedCalculation(ctx context.Context, key string) (*models.Calculation, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warnf("Failed to read schedule cache: %v", err)
	}
	if err != nil || !ok {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	calc := &models.Calculation{}
	if err := json.Unmarshal([]byte(raw), calc); err != nil {
		s.log.Warnf("Discarding unreadable cached schedule: %v", err)
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	calc.Cached = true
	return calc, true
}

func checkLimits(m models.Mortgage) error {
	if m.InitialBalance.GreaterThan(MaxInitialBalance) {
		return fmt.Errorf("%w: initial balance exceeds %s", ErrInvalidRequest, MaxInitialBalance)
	}
	if len(m.Products) > MaxProducts {
		return fmt.Errorf("%w: at most %d products are allowed", ErrInvalidRequest, MaxProducts)
	}
	years := 0
	for i, p := range m.Products {
		if p.Years > MaxTermYears {
			return fmt.Errorf("%w: product %d term exceeds %d years", ErrInvalidRequest, i+1, MaxTermYears)
		}
		years += p.Years
	}
	if years > MaxTermYears {
		return fmt.Errorf("%w: term exceeds %d years", ErrInvalidRequest, MaxTermYears)
	}
	return nil
}

// scheduleCacheKey identifies a mortgage by its resolved terms
func scheduleCacheKey(m models.Mortgage) string {
	var b strings.Builder
	b.WriteString(m.InitialBalance.String())
	for _, p := range m.Products {
		fmt.Fprintf(&b, "|%d:%s:%s:%s", p.Years, p.APR.String(), p.RateType, p.Margin.String())
	}
	sum := sha256.Sum256([]byte(b.String()))
	return scheduleKeyPref + hex.EncodeToString(sum[:])
}
