package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deliveryCols = []string{"id", "order_id", "buyer_id", "from_address", "to_address", "tracking_id", "is_return", "status", "created_at", "updated_at"}

func TestDeliveryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)

	t.Run("Without tracking id", func(t *testing.T) {
		d := &domain.Delivery{OrderID: 42, FromAddress: "12 Lake Rd", ToAddress: "warehouse", IsReturn: true, Status: domain.DeliveryStatusPending}
		mock.ExpectQuery("INSERT INTO deliveries").
			WithArgs(int32(42), "12 Lake Rd", "warehouse", nil, true, domain.DeliveryStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		require.NoError(t, repo.Create(context.Background(), d))
		assert.Equal(t, int32(3), d.ID)
	})

	t.Run("With tracking id", func(t *testing.T) {
		tracking := "TRK_1"
		d := &domain.Delivery{OrderID: 42, FromAddress: "a", ToAddress: "b", TrackingID: &tracking, Status: domain.DeliveryStatusPending}
		mock.ExpectQuery("INSERT INTO deliveries").
			WithArgs(int32(42), "a", "b", "TRK_1", false, domain.DeliveryStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		require.NoError(t, repo.Create(context.Background(), d))
		assert.Equal(t, int32(4), d.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)
	now := time.Now()

	t.Run("Joins buyer from order", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM deliveries d JOIN orders o ON o.id = d.order_id (.+) AND d.id = \\$1").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows(deliveryCols).AddRow(3, 42, 1, "12 Lake Rd", "warehouse", nil, true, "pending", now, now))

		d, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, int32(1), d.BuyerID)
		assert.Nil(t, d.TrackingID)
		assert.True(t, d.IsReturn)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM deliveries d").
			WithArgs(int32(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 9)
		assert.True(t, apperror.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM \\(SELECT (.+) AND d.order_id = \\$1 AND o.buyer_id = \\$2\\) AS sub").
		WithArgs(int32(42), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("AND d.order_id = \\$1 AND o.buyer_id = \\$2 ORDER BY d.created_at DESC, d.id DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs(int32(42), int32(1), int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(deliveryCols).AddRow(3, 42, 1, "a", "b", "TRK_1", false, "in_transit", now, now))

	list, total, err := repo.List(context.Background(), domain.DeliveryFilter{OrderID: 42, BuyerID: 1}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].TrackingID)
	assert.Equal(t, "TRK_1", *list[0].TrackingID)
	assert.Equal(t, domain.DeliveryStatusInTransit, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewDeliveryRepository(db)

	t.Run("Keeps tracking id when none given", func(t *testing.T) {
		mock.ExpectExec("UPDATE deliveries SET status = \\$1, tracking_id = COALESCE\\(\\$2, tracking_id\\)").
			WithArgs(domain.DeliveryStatusDelivered, nil, sqlmock.AnyArg(), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(context.Background(), 3, domain.DeliveryStatusDelivered, nil))
	})

	t.Run("Missing delivery", func(t *testing.T) {
		mock.ExpectExec("UPDATE deliveries SET status").
			WithArgs(domain.DeliveryStatusFailed, nil, sqlmock.AnyArg(), int32(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 9, domain.DeliveryStatusFailed, nil)
		assert.True(t, apperror.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
