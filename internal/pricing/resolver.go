package pricing

import (
	"context"
	"errors"
	"strconv"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/cache"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"

	"github.com/shopspring/decimal"
)

const (
	KeyDeliveryCharge       = "delivery_charge_per_order"
	KeySafetyDepositPercent = "safety_deposit_percentage"
	KeyNegotiationHold      = "negotiation_hold_minutes"
	KeyPaymentTimeout       = "payment_timeout_minutes"
	KeyLateFeePercentPerDay = "late_fee_percentage_per_day"
	KeyRentalPeriodDays     = "rental_period_days"
)

var (
	DefaultDeliveryCharge       = decimal.NewFromInt(100)
	DefaultSafetyDepositPercent = decimal.NewFromInt(30)
	DefaultLateFeePercentPerDay = decimal.NewFromInt(10)
)

const (
	DefaultNegotiationHoldMinutes = 1440
	DefaultPaymentTimeoutMinutes  = 1440
	DefaultRentalPeriodDays       = 7

	cacheKeyPrefix = "admin_config:"
)

// ConfigSource is the admin configuration store.
type ConfigSource interface {
	Get(ctx context.Context, key string) (*domain.AdminConfig, error)
}

// Resolver reads named business parameters, falling back to the caller's
// default when a key is absent, unreadable or malformed.
type Resolver struct {
	source ConfigSource
	cache  cache.Cache
	ttl    time.Duration
}

// NewResolver builds a resolver. c may be nil to disable caching.
func NewResolver(source ConfigSource, c cache.Cache, ttl time.Duration) *Resolver {
	return &Resolver{source: source, cache: c, ttl: ttl}
}

// Raw returns the stored string for key and whether it exists.
func (r *Resolver) Raw(ctx context.Context, key string) (string, bool) {
	if r.cache != nil {
		if v, err := r.cache.Get(ctx, cacheKeyPrefix+key); err == nil {
			return string(v), true
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("Config cache read failed", "key", key, "error", err)
		}
	}

	cfg, err := r.source.Get(ctx, key)
	if err != nil {
		if !apperror.IsNotFound(err) {
			logger.Error("Config lookup failed, using default", "key", key, "error", err)
		}
		return "", false
	}

	if r.cache != nil && r.ttl > 0 {
		if err := r.cache.Set(ctx, cacheKeyPrefix+key, []byte(cfg.Value), r.ttl); err != nil {
			logger.Warn("Config cache write failed", "key", key, "error", err)
		}
	}
	return cfg.Value, true
}

// Invalidate drops the cached value for key.
func (r *Resolver) Invalidate(ctx context.Context, key string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cacheKeyPrefix+key); err != nil {
		logger.Warn("Config cache invalidate failed", "key", key, "error", err)
	}
}

// Decimal parses key as a non-negative decimal.
func (r *Resolver) Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := r.Raw(ctx, key)
	if !ok {
		return def
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		logger.Warn("Malformed config value, using default", "key", key, "value", raw, "default", def.String())
		return def
	}
	return v
}

// Int parses key as a non-negative integer.
func (r *Resolver) Int(ctx context.Context, key string, def int64) int64 {
	raw, ok := r.Raw(ctx, key)
	if !ok {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		logger.Warn("Malformed config value, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return v
}

func (r *Resolver) DeliveryCharge(ctx context.Context) decimal.Decimal {
	return r.Decimal(ctx, KeyDeliveryCharge, DefaultDeliveryCharge)
}

func (r *Resolver) SafetyDepositPercent(ctx context.Context) decimal.Decimal {
	return r.Decimal(ctx, KeySafetyDepositPercent, DefaultSafetyDepositPercent)
}

func (r *Resolver) LateFeePercentPerDay(ctx context.Context) decimal.Decimal {
	return r.Decimal(ctx, KeyLateFeePercentPerDay, DefaultLateFeePercentPerDay)
}

func (r *Resolver) NegotiationHold(ctx context.Context) time.Duration {
	return time.Duration(r.Int(ctx, KeyNegotiationHold, DefaultNegotiationHoldMinutes)) * time.Minute
}

func (r *Resolver) PaymentTimeout(ctx context.Context) time.Duration {
	return time.Duration(r.Int(ctx, KeyPaymentTimeout, DefaultPaymentTimeoutMinutes)) * time.Minute
}

func (r *Resolver) RentalPeriod(ctx context.Context) time.Duration {
	return time.Duration(r.Int(ctx, KeyRentalPeriodDays, DefaultRentalPeriodDays)) * 24 * time.Hour
}
