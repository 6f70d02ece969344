package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/cache"
	"sharewardrobe-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockConfigSource struct {
	mock.Mock
}

func (m *MockConfigSource) Get(ctx context.Context, key string) (*domain.AdminConfig, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminConfig), args.Error(1)
}

func TestResolver_Defaults(t *testing.T) {
	ctx := context.Background()
	src := new(MockConfigSource)
	src.On("Get", ctx, mock.Anything).Return(nil, apperror.NotFound("Config not found"))

	r := NewResolver(src, nil, 0)

	assert.Equal(t, "100.00", r.DeliveryCharge(ctx).StringFixed(2))
	assert.Equal(t, "30", r.SafetyDepositPercent(ctx).String())
	assert.Equal(t, "10", r.LateFeePercentPerDay(ctx).String())
	assert.Equal(t, 1440*time.Minute, r.NegotiationHold(ctx))
	assert.Equal(t, 1440*time.Minute, r.PaymentTimeout(ctx))
	assert.Equal(t, 7*24*time.Hour, r.RentalPeriod(ctx))
}

func TestResolver_StoredValues(t *testing.T) {
	ctx := context.Background()

	t.Run("Parsed", func(t *testing.T) {
		src := new(MockConfigSource)
		src.On("Get", ctx, KeyDeliveryCharge).Return(&domain.AdminConfig{Key: KeyDeliveryCharge, Value: "60.50"}, nil)
		src.On("Get", ctx, KeyNegotiationHold).Return(&domain.AdminConfig{Key: KeyNegotiationHold, Value: "30"}, nil)

		r := NewResolver(src, nil, 0)
		assert.Equal(t, "60.50", r.DeliveryCharge(ctx).StringFixed(2))
		assert.Equal(t, 30*time.Minute, r.NegotiationHold(ctx))
	})

	t.Run("Malformed falls back", func(t *testing.T) {
		src := new(MockConfigSource)
		src.On("Get", ctx, KeySafetyDepositPercent).Return(&domain.AdminConfig{Value: "thirty"}, nil)
		src.On("Get", ctx, KeyPaymentTimeout).Return(&domain.AdminConfig{Value: "-5"}, nil)
		src.On("Get", ctx, KeyDeliveryCharge).Return(&domain.AdminConfig{Value: "-1"}, nil)

		r := NewResolver(src, nil, 0)
		assert.Equal(t, "30", r.SafetyDepositPercent(ctx).String())
		assert.Equal(t, 1440*time.Minute, r.PaymentTimeout(ctx))
		assert.Equal(t, "100", r.DeliveryCharge(ctx).String())
	})

	t.Run("Store failure falls back", func(t *testing.T) {
		src := new(MockConfigSource)
		src.On("Get", ctx, KeyRentalPeriodDays).Return(nil, errors.New("connection reset"))

		r := NewResolver(src, nil, 0)
		assert.Equal(t, 7*24*time.Hour, r.RentalPeriod(ctx))
	})
}

func TestResolver_Cache(t *testing.T) {
	ctx := context.Background()
	src := new(MockConfigSource)
	src.On("Get", ctx, KeyDeliveryCharge).Return(&domain.AdminConfig{Value: "80"}, nil)

	r := NewResolver(src, cache.NewMemoryCache(), time.Minute)

	assert.Equal(t, "80", r.DeliveryCharge(ctx).String())
	assert.Equal(t, "80", r.DeliveryCharge(ctx).String())
	src.AssertNumberOfCalls(t, "Get", 1)

	r.Invalidate(ctx, KeyDeliveryCharge)
	src.ExpectedCalls = nil
	src.On("Get", ctx, KeyDeliveryCharge).Return(&domain.AdminConfig{Value: "90"}, nil)

	assert.Equal(t, "90", r.DeliveryCharge(ctx).String())
}
