package service

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	MaxInitialBalance = decimal.NewFromInt(1_000_000_000)
	MaxAPR            = decimal.NewFromInt(100)
)

const (
	MaxTermYears     = 50
	MaxProducts      = 20
	DefaultListLimit = 20
	MaxListLimit     = 100

	keyRateCacheKey = "cbr:key_rate"
	keyRateTTL      = 6 * time.Hour
	scheduleKeyPref = "schedule:"
)
