package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *service.LoginRequest) (*model.User, *cache.Session, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*model.User)
	session, _ := args.Get(1).(*cache.Session)
	return user, session, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, sessionID string) (*model.User, error) {
	args := m.Called(ctx, sessionID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*model.Order)
	return orders, args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockOrderService) Create(ctx context.Context, req *service.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockOrderService) Update(ctx context.Context, id uint, req *service.UpdateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, id, req)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockOrderService) CreateItem(ctx context.Context, req *service.CreateOrderItemRequest) (*model.OrderItem, error) {
	args := m.Called(ctx, req)
	item, _ := args.Get(0).(*model.OrderItem)
	return item, args.Error(1)
}

func (m *MockOrderService) UpdateItem(ctx context.Context, id uint, req *service.UpdateOrderItemRequest) (*model.OrderItem, error) {
	args := m.Called(ctx, id, req)
	item, _ := args.Get(0).(*model.OrderItem)
	return item, args.Error(1)
}

type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) Start(ctx context.Context, req *service.StartDeliveryRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockDeliveryService) Complete(ctx context.Context, req *service.CompleteDeliveryRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockDeliveryService) MarkNotDelivered(ctx context.Context, req *service.NotDeliveredRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockDeliveryService) CaptureGPS(ctx context.Context, req *service.CaptureGPSRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) List(ctx context.Context, driverID uint) ([]*model.Inventory, error) {
	args := m.Called(ctx, driverID)
	inventory, _ := args.Get(0).([]*model.Inventory)
	return inventory, args.Error(1)
}

func (m *MockInventoryService) Set(ctx context.Context, req *service.SetInventoryRequest) (*model.Inventory, error) {
	args := m.Called(ctx, req)
	inventory, _ := args.Get(0).(*model.Inventory)
	return inventory, args.Error(1)
}

type MockRouteSessionService struct {
	mock.Mock
}

func (m *MockRouteSessionService) List(ctx context.Context, driverID uint) ([]*model.RouteSession, error) {
	args := m.Called(ctx, driverID)
	sessions, _ := args.Get(0).([]*model.RouteSession)
	return sessions, args.Error(1)
}

func (m *MockRouteSessionService) Start(ctx context.Context, req *service.StartSessionRequest) (*model.RouteSession, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*model.RouteSession)
	return session, args.Error(1)
}

func (m *MockRouteSessionService) End(ctx context.Context, req *service.EndSessionRequest) (*service.EndSessionResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*service.EndSessionResult)
	return result, args.Error(1)
}

func (m *MockRouteSessionService) ListReports(ctx context.Context, driverID uint, date *time.Time) ([]*model.DailyReport, error) {
	args := m.Called(ctx, driverID, date)
	reports, _ := args.Get(0).([]*model.DailyReport)
	return reports, args.Error(1)
}

func (m *MockRouteSessionService) RepublishPending(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) GetOrderStatistics(ctx context.Context, driverID uint, date time.Time) (*service.OrderStatistics, error) {
	args := m.Called(ctx, driverID, date)
	stats, _ := args.Get(0).(*service.OrderStatistics)
	return stats, args.Error(1)
}
