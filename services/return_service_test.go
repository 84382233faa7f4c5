package services_test

import (
	"context"
	"testing"
	"time"

	"order-care-service/models"
	awspkg "order-care-service/pkg/aws"
	"order-care-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newReturnService(returnRepo *mockReturnRepo, orderRepo *mockOrderRepo) services.ReturnService {
	return services.NewReturnService(returnRepo, orderRepo, nil, nil, zap.NewNop())
}

func TestCreateReturnWithinWindow(t *testing.T) {
	orderRepo := newMockOrderRepo()
	returnRepo := newMockReturnRepo()
	svc := newReturnService(returnRepo, orderRepo)

	userID := uuid.New()
	order := seededOrder(orderRepo, userID, models.OrderStatusDelivered, 3*24*time.Hour)

	request, serviceErr := svc.CreateReturn(context.Background(), userID.String(), &models.CreateReturnRequest{
		OrderID:   order.ID,
		ProductID: "ring-01",
		Reason:    "Wrong size",
	})
	assert.Nil(t, serviceErr)
	assert.Equal(t, models.ClaimStatusPending, request.Status)
	assert.Equal(t, order.ID, request.OrderID)
	assert.Equal(t, userID, request.UserID)
	assert.Len(t, returnRepo.requests, 1)
}

func TestCreateReturnExpiredWindow(t *testing.T) {
	orderRepo := newMockOrderRepo()
	returnRepo := newMockReturnRepo()
	svc := newReturnService(returnRepo, orderRepo)

	userID := uuid.New()
	// delivered ten days ago, well past the window
	order := seededOrder(orderRepo, userID, models.OrderStatusDelivered, 10*24*time.Hour)

	_, serviceErr := svc.CreateReturn(context.Background(), userID.String(), &models.CreateReturnRequest{
		OrderID:   order.ID,
		ProductID: "ring-01",
		Reason:    "Changed my mind",
	})
	assert.NotNil(t, serviceErr)
	assert.Equal(t, services.KindEligibilityExpired, serviceErr.Kind)
	assert.Empty(t, returnRepo.requests)
}

func TestCreateReturnWindowBoundary(t *testing.T) {
	orderRepo := newMockOrderRepo()
	returnRepo := newMockReturnRepo()
	svc := newReturnService(returnRepo, orderRepo)

	userID := uuid.New()

	// age computed in whole days, so day seven is still eligible
	onBoundary := seededOrder(orderRepo, userID, models.OrderStatusDelivered, 7*24*time.Hour+time.Hour)
	_, serviceErr := svc.CreateReturn(context.Background(), userID.String(), &models.CreateReturnRequest{
		OrderID: onBoundary.ID, ProductID: "ring-01", Reason: "Scratched",
	})
	assert.Nil(t, serviceErr)

	pastBoundary := seededOrder(orderRepo, userID, models.OrderStatusDelivered, 8*24*time.Hour+time.Hour)
	_, serviceErr = svc.CreateReturn(context.Background(), userID.String(), &models.CreateReturnRequest{
		OrderID: pastBoundary.ID, ProductID: "ring-01", Reason: "Scratched",
	})
	assert.NotNil(t, serviceErr)
	assert.Equal(t, services.KindEligibilityExpired, serviceErr.Kind)
}

func TestCreateReturnNonOwnerLooksLikeMissing(t *testing.T) {
	orderRepo := newMockOrderRepo()
	svc := newReturnService(newMockReturnRepo(), orderRepo)

	order := seededOrder(orderRepo, uuid.New(), models.OrderStatusDelivered, time.Hour)

	_, notOwnedErr := svc.CreateReturn(context.Background(), uuid.New().String(), &models.CreateReturnRequest{
		OrderID: order.ID, ProductID: "ring-01", Reason: "Not mine",
	})
	_, missingErr := svc.CreateReturn(context.Background(), uuid.New().String(), &models.CreateReturnRequest{
		OrderID: uuid.New(), ProductID: "ring-01", Reason: "Ghost order",
	})

	assert.Equal(t, services.KindNotFound, notOwnedErr.Kind)
	assert.Equal(t, services.KindNotFound, missingErr.Kind)
	assert.Equal(t, notOwnedErr.Message, missingErr.Message)
}

func TestCreateReturnAllowsDuplicateClaims(t *testing.T) {
	orderRepo := newMockOrderRepo()
	returnRepo := newMockReturnRepo()
	svc := newReturnService(returnRepo, orderRepo)

	userID := uuid.New()
	order := seededOrder(orderRepo, userID, models.OrderStatusDelivered, time.Hour)

	req := &models.CreateReturnRequest{OrderID: order.ID, ProductID: "ring-01", Reason: "Defective"}
	_, firstErr := svc.CreateReturn(context.Background(), userID.String(), req)
	_, secondErr := svc.CreateReturn(context.Background(), userID.String(), req)

	assert.Nil(t, firstErr)
	assert.Nil(t, secondErr)
	assert.Len(t, returnRepo.requests, 2)
}

func TestReturnUpdateStatusTransitions(t *testing.T) {
	orderRepo := newMockOrderRepo()
	returnRepo := newMockReturnRepo()
	svc := newReturnService(returnRepo, orderRepo)

	request := &models.ReturnRequest{
		ID: uuid.New(), OrderID: uuid.New(), ProductID: "ring-01",
		UserID: uuid.New(), Reason: "Defective", Status: models.ClaimStatusPending,
	}
	returnRepo.requests[request.ID] = request

	updated, serviceErr := svc.UpdateStatus(context.Background(), request.ID, &models.UpdateClaimStatusRequest{
		Status: models.ClaimStatusApproved,
	})
	assert.Nil(t, serviceErr)
	assert.Equal(t, models.ClaimStatusApproved, updated.Status)

	// Rejected is terminal
	_, serviceErr = svc.UpdateStatus(context.Background(), request.ID, &models.UpdateClaimStatusRequest{
		Status: models.ClaimStatusRejected,
	})
	assert.Nil(t, serviceErr)
	_, serviceErr = svc.UpdateStatus(context.Background(), request.ID, &models.UpdateClaimStatusRequest{
		Status: models.ClaimStatusApproved,
	})
	assert.NotNil(t, serviceErr)
	assert.Equal(t, services.KindInvalidState, serviceErr.Kind)
}

func TestReturnUpdateStatusNeverTouchesOrder(t *testing.T) {
	orderRepo := newMockOrderRepo()
	returnRepo := newMockReturnRepo()
	svc := newReturnService(returnRepo, orderRepo)

	userID := uuid.New()
	order := seededOrder(orderRepo, userID, models.OrderStatusDelivered, time.Hour)

	request := &models.ReturnRequest{
		ID: uuid.New(), OrderID: order.ID, ProductID: "ring-01",
		UserID: userID, Reason: "Defective", Status: models.ClaimStatusPending,
	}
	returnRepo.requests[request.ID] = request

	_, serviceErr := svc.UpdateStatus(context.Background(), request.ID, &models.UpdateClaimStatusRequest{
		Status: models.ClaimStatusApproved,
	})
	assert.Nil(t, serviceErr)

	// the parent order advances independently of the claim
	assert.Equal(t, models.OrderStatusDelivered, orderRepo.orders[order.ID].Status)
	assert.Equal(t, models.RefundStatusNone, orderRepo.orders[order.ID].RefundStatus)
	assert.Len(t, orderRepo.orders[order.ID].StatusHistory, 1)
}

func TestReturnCounterRecorded(t *testing.T) {
	orderRepo := newMockOrderRepo()
	metrics := &mockMetrics{}
	svc := services.NewReturnService(newMockReturnRepo(), orderRepo, nil, metrics, zap.NewNop())

	userID := uuid.New()
	order := seededOrder(orderRepo, userID, models.OrderStatusDelivered, time.Hour)

	_, serviceErr := svc.CreateReturn(context.Background(), userID.String(), &models.CreateReturnRequest{
		OrderID: order.ID, ProductID: "ring-01", Reason: "Defective",
	})
	assert.Nil(t, serviceErr)
	assert.Equal(t, []string{awspkg.MetricReturnsCreated}, metrics.counts)

	// an ineligible request does not count
	stale := seededOrder(orderRepo, userID, models.OrderStatusDelivered, 10*24*time.Hour)
	_, serviceErr = svc.CreateReturn(context.Background(), userID.String(), &models.CreateReturnRequest{
		OrderID: stale.ID, ProductID: "ring-01", Reason: "Too late",
	})
	assert.NotNil(t, serviceErr)
	assert.Len(t, metrics.counts, 1)
}

func TestReturnUpdateStatusUnknownValue(t *testing.T) {
	svc := newReturnService(newMockReturnRepo(), newMockOrderRepo())

	_, serviceErr := svc.UpdateStatus(context.Background(), uuid.New(), &models.UpdateClaimStatusRequest{
		Status: models.ClaimStatus("Vanished"),
	})
	assert.NotNil(t, serviceErr)
	assert.Equal(t, services.KindValidation, serviceErr.Kind)
}
