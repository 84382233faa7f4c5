package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"order-care-service/models"
	"order-care-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: models.OrderStatusPending,
		StatusHistory: []models.OrderStatusEvent{
			{Status: models.OrderStatusPending, Note: "Order placed", CreatedAt: time.Now()},
		},
	}
}

func TestUpdateStatus_WritesStatusAndHistoryInOneTransaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := pendingOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_status_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), order, models.OrderStatusShipped, "Dispatched")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// the in-memory order reflects the committed write
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Len(t, order.StatusHistory, 2)
	assert.Equal(t, models.OrderStatusShipped, order.StatusHistory[1].Status)
	assert.Equal(t, "Dispatched", order.StatusHistory[1].Note)
}

func TestUpdateStatus_RollsBackWhenHistoryInsertFails(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := pendingOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_status_events"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), order, models.OrderStatusShipped, "Dispatched")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// nothing was reflected on the in-memory order
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.StatusHistory, 1)
}

func TestUpdateRefundStatus_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateRefundStatus(context.Background(), uuid.New(), models.RefundStatusRefunded)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefundStatus_NotFoundWhenNoRowMatches(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateRefundStatus(context.Background(), uuid.New(), models.RefundStatusRefunded)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDelete_NotFoundWhenNoRowMatches(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	// soft delete is an UPDATE setting deleted_at
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDelete_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	order, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, order)
}
