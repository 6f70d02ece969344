package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

// numeric config keys and whether they must be whole numbers
var numericConfigKeys = map[string]bool{
	pricing.KeyDeliveryCharge:       false,
	pricing.KeySafetyDepositPercent: false,
	pricing.KeyLateFeePercentPerDay: false,
	pricing.KeyNegotiationHold:      true,
	pricing.KeyPaymentTimeout:       true,
	pricing.KeyRentalPeriodDays:     true,
}

type adminService struct {
	store    Store
	resolver *pricing.Resolver
}

func NewAdminService(store Store, resolver *pricing.Resolver) AdminService {
	return &adminService{store: store, resolver: resolver}
}

func (s *adminService) GetConfig(ctx context.Context, key string) (*domain.AdminConfig, error) {
	return s.store.AdminConfigs().Get(ctx, key)
}

func (s *adminService) ListConfigs(ctx context.Context) ([]domain.AdminConfig, error) {
	return s.store.AdminConfigs().List(ctx)
}

func (s *adminService) UpsertConfig(ctx context.Context, key, value, description string) (*domain.AdminConfig, error) {
	logger.EnterMethod("adminService.UpsertConfig", "key", key, "value", value)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperror.Validation("Config key is required")
	}
	if whole, ok := numericConfigKeys[key]; ok {
		if err := validateNumericConfig(key, value, whole); err != nil {
			return nil, err
		}
	}

	cfg := &domain.AdminConfig{Key: key, Value: value, Description: description}
	if err := s.store.AdminConfigs().Upsert(ctx, cfg); err != nil {
		logger.ExitMethodWithError("adminService.UpsertConfig", err, "key", key)
		return nil, err
	}
	s.resolver.Invalidate(ctx, key)

	logger.ExitMethod("adminService.UpsertConfig", "key", key)
	return cfg, nil
}

func validateNumericConfig(key, value string, whole bool) error {
	if whole {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return apperror.Validation("Config %s must be a non-negative integer", key)
		}
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return apperror.Validation("Config %s must be a non-negative number", key)
	}
	return nil
}

// RevenueReport totals platform fee income. Refund rows are already net of
// fees, so only fee rows count as revenue.
func (s *adminService) RevenueReport(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	if to.Before(from) {
		return nil, apperror.Validation("Report end must not be before start")
	}

	lines, err := s.store.Transactions().RevenueByType(ctx, domain.TransactionTypeFee, from, to)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{From: from, To: to, Lines: lines, Total: decimal.Zero}
	for _, l := range lines {
		report.Total = report.Total.Add(l.Total)
	}
	return report, nil
}

func (s *adminService) TransactionLedger(ctx context.Context, filter domain.TransactionFilter, page, pageSize int32) ([]domain.Transaction, int32, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, apperror.Validation("Filter end must not be before start")
	}
	return s.store.Transactions().List(ctx, filter, page, pageSize)
}
