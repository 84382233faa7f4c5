package services_test

import (
	"context"
	"fmt"
	"time"

	"order-care-service/models"
	"order-care-service/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Mock OrderRepository ---

type mockOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, order *models.Order, status models.OrderStatus, note string) error {
	stored, ok := m.orders[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	event := models.OrderStatusEvent{
		OrderID:   order.ID,
		Status:    status,
		Note:      note,
		CreatedAt: time.Now(),
	}
	stored.Status = status
	stored.StatusHistory = append(stored.StatusHistory, event)
	if stored != order {
		order.Status = status
		order.StatusHistory = append(order.StatusHistory, event)
	}
	return nil
}

func (m *mockOrderRepo) UpdateRefundStatus(_ context.Context, orderID uuid.UUID, status models.RefundStatus) error {
	order, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.RefundStatus = status
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, orderID uuid.UUID) error {
	if _, ok := m.orders[orderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.orders, orderID)
	return nil
}

// --- Mock ReturnRepository ---

type mockReturnRepo struct {
	requests map[uuid.UUID]*models.ReturnRequest
}

func newMockReturnRepo() *mockReturnRepo {
	return &mockReturnRepo{requests: make(map[uuid.UUID]*models.ReturnRequest)}
}

func (m *mockReturnRepo) Create(_ context.Context, req *models.ReturnRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (m *mockReturnRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.ReturnRequest, int64, error) {
	var result []models.ReturnRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockReturnRepo) FindAll(_ context.Context, _, _ int) ([]models.ReturnRequest, int64, error) {
	var result []models.ReturnRequest
	for _, r := range m.requests {
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockReturnRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ClaimStatus) error {
	req, ok := m.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.Status = status
	return nil
}

// --- Mock RefundRepository ---

type mockRefundRepo struct {
	requests map[uuid.UUID]*models.RefundRequest
}

func newMockRefundRepo() *mockRefundRepo {
	return &mockRefundRepo{requests: make(map[uuid.UUID]*models.RefundRequest)}
}

func (m *mockRefundRepo) Create(_ context.Context, req *models.RefundRequest) error {
	// mirror the compound unique index
	for _, existing := range m.requests {
		if existing.OrderID == req.OrderID && existing.ProductID == req.ProductID && existing.UserID == req.UserID {
			return fmt.Errorf("duplicate key value violates unique constraint \"idx_refund_claim\"")
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockRefundRepo) FindByID(_ context.Context, id uuid.UUID) (*models.RefundRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (m *mockRefundRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.RefundRequest, int64, error) {
	var result []models.RefundRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockRefundRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) ([]models.RefundRequest, error) {
	var result []models.RefundRequest
	for _, r := range m.requests {
		if r.OrderID == orderID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRefundRepo) FindAll(_ context.Context, _, _ int) ([]models.RefundRequest, int64, error) {
	var result []models.RefundRequest
	for _, r := range m.requests {
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockRefundRepo) ExistsForClaim(_ context.Context, orderID uuid.UUID, productID string, userID uuid.UUID) (bool, error) {
	for _, r := range m.requests {
		if r.OrderID == orderID && r.ProductID == productID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRefundRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ClaimStatus, adminNote string) error {
	req, ok := m.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.Status = status
	if adminNote != "" {
		req.AdminNote = adminNote
	}
	return nil
}

func (m *mockRefundRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.requests, id)
	return nil
}

// --- Mock MetricsRecorder ---

type mockMetrics struct {
	counts []string
}

func (m *mockMetrics) RecordCount(_ context.Context, metricName string, _ map[string]string) error {
	m.counts = append(m.counts, metricName)
	return nil
}

func (m *mockMetrics) IsEnabled() bool { return true }

// --- Stub Catalog ---

type stubCatalog struct {
	products map[string]*services.CatalogProduct
}

func newStubCatalog(products ...*services.CatalogProduct) *stubCatalog {
	c := &stubCatalog{products: make(map[string]*services.CatalogProduct)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) GetProduct(_ context.Context, productID string) (*services.CatalogProduct, error) {
	p, ok := c.products[productID]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", productID)
	}
	return p, nil
}

// --- Shared helpers ---

func seededOrder(repo *mockOrderRepo, userID uuid.UUID, status models.OrderStatus, age time.Duration) *models.Order {
	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.OrderItem{
			{ProductID: "ring-01", Name: "Gold Ring", Price: 1000, Quantity: 2},
			{ProductID: "chain-02", Name: "Silver Chain", Price: 500, Quantity: 1},
		},
		Total:         2500,
		PaymentMethod: "COD",
		Status:        status,
		RefundStatus:  models.RefundStatusNone,
		StatusHistory: []models.OrderStatusEvent{
			{Status: models.OrderStatusPending, Note: "Order placed", CreatedAt: time.Now().Add(-age)},
		},
		CreatedAt: time.Now().Add(-age),
	}
	repo.orders[order.ID] = order
	return order
}
