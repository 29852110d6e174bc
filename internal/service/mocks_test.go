package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// Mock repositories for testing

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uint) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, customer)
	if v := args.Get(0); v != nil {
		return v.(*model.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if v := args.Get(0); v != nil {
		return v.(*model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id uint) (*model.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, order)
	if v := args.Get(0); v != nil {
		return v.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, order)
	if v := args.Get(0); v != nil {
		return v.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, driverID uint, from, to time.Time) (repository.StatusCounts, error) {
	args := m.Called(ctx, driverID, from, to)
	if v := args.Get(0); v != nil {
		return v.(repository.StatusCounts), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) SumDeliveredAmount(ctx context.Context, driverID uint, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, driverID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) GetByID(ctx context.Context, id uint) (*model.OrderItem, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *model.OrderItem) (*model.OrderItem, error) {
	args := m.Called(ctx, item)
	if v := args.Get(0); v != nil {
		return v.(*model.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderItemRepository) UpdateDelivery(ctx context.Context, item *model.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) SumTotals(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) ListByDriver(ctx context.Context, driverID uint) ([]*model.Inventory, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]*model.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) SetQuantity(ctx context.Context, productID, driverID uint, quantity int, at time.Time) (*model.Inventory, error) {
	args := m.Called(ctx, productID, driverID, quantity, at)
	if v := args.Get(0); v != nil {
		return v.(*model.Inventory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) SumQuantity(ctx context.Context, driverID uint) (int64, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) ListByDriver(ctx context.Context, driverID uint) ([]*model.Route, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]*model.Route), args.Error(1)
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id uint) (*model.Route, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteRepository) Create(ctx context.Context, route *model.Route) (*model.Route, error) {
	args := m.Called(ctx, route)
	if v := args.Get(0); v != nil {
		return v.(*model.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRouteSessionRepository struct {
	mock.Mock
}

func (m *MockRouteSessionRepository) ListByDriver(ctx context.Context, driverID uint) ([]*model.RouteSession, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]*model.RouteSession), args.Error(1)
}

func (m *MockRouteSessionRepository) GetByID(ctx context.Context, id uint) (*model.RouteSession, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.RouteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteSessionRepository) GetForUpdate(ctx context.Context, id uint) (*model.RouteSession, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.RouteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteSessionRepository) GetActiveByDriver(ctx context.Context, driverID uint) (*model.RouteSession, error) {
	args := m.Called(ctx, driverID)
	if v := args.Get(0); v != nil {
		return v.(*model.RouteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteSessionRepository) Create(ctx context.Context, session *model.RouteSession) (*model.RouteSession, error) {
	args := m.Called(ctx, session)
	if v := args.Get(0); v != nil {
		return v.(*model.RouteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteSessionRepository) Update(ctx context.Context, session *model.RouteSession) (*model.RouteSession, error) {
	args := m.Called(ctx, session)
	if v := args.Get(0); v != nil {
		return v.(*model.RouteSession), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDailyReportRepository struct {
	mock.Mock
}

func (m *MockDailyReportRepository) Create(ctx context.Context, report *model.DailyReport) (*model.DailyReport, error) {
	args := m.Called(ctx, report)
	if v := args.Get(0); v != nil {
		return v.(*model.DailyReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDailyReportRepository) ListByDriver(ctx context.Context, driverID uint, from, to *time.Time) ([]*model.DailyReport, error) {
	args := m.Called(ctx, driverID, from, to)
	return args.Get(0).([]*model.DailyReport), args.Error(1)
}

func (m *MockDailyReportRepository) ListUnpublished(ctx context.Context, since time.Time, afterID uint, limit int) ([]*model.DailyReport, error) {
	args := m.Called(ctx, since, afterID, limit)
	return args.Get(0).([]*model.DailyReport), args.Error(1)
}

func (m *MockDailyReportRepository) MarkPublished(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// fakeStore hands out the mock repositories and records how transactions end
type fakeStore struct {
	users         *MockUserRepository
	customers     *MockCustomerRepository
	products      *MockProductRepository
	orders        *MockOrderRepository
	orderItems    *MockOrderItemRepository
	inventory     *MockInventoryRepository
	routes        *MockRouteRepository
	routeSessions *MockRouteSessionRepository
	dailyReports  *MockDailyReportRepository

	commits   int
	rollbacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         new(MockUserRepository),
		customers:     new(MockCustomerRepository),
		products:      new(MockProductRepository),
		orders:        new(MockOrderRepository),
		orderItems:    new(MockOrderItemRepository),
		inventory:     new(MockInventoryRepository),
		routes:        new(MockRouteRepository),
		routeSessions: new(MockRouteSessionRepository),
		dailyReports:  new(MockDailyReportRepository),
	}
}

func (s *fakeStore) Users() repository.UserRepository                 { return s.users }
func (s *fakeStore) Customers() repository.CustomerRepository         { return s.customers }
func (s *fakeStore) Products() repository.ProductRepository           { return s.products }
func (s *fakeStore) Orders() repository.OrderRepository               { return s.orders }
func (s *fakeStore) OrderItems() repository.OrderItemRepository       { return s.orderItems }
func (s *fakeStore) Inventory() repository.InventoryRepository        { return s.inventory }
func (s *fakeStore) Routes() repository.RouteRepository               { return s.routes }
func (s *fakeStore) RouteSessions() repository.RouteSessionRepository { return s.routeSessions }
func (s *fakeStore) DailyReports() repository.DailyReportRepository   { return s.dailyReports }

func (s *fakeStore) Transaction(_ context.Context, fn func(repository.Store) error) error {
	if err := fn(s); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *fakeStore) assertExpectations(t mock.TestingT) {
	s.users.AssertExpectations(t)
	s.customers.AssertExpectations(t)
	s.products.AssertExpectations(t)
	s.orders.AssertExpectations(t)
	s.orderItems.AssertExpectations(t)
	s.inventory.AssertExpectations(t)
	s.routes.AssertExpectations(t)
	s.routeSessions.AssertExpectations(t)
	s.dailyReports.AssertExpectations(t)
}

// MockPublisher records publications
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) DeliveryRecorded(ctx context.Context, order *model.Order) {
	m.Called(ctx, order)
}

func (m *MockPublisher) ReportClosed(ctx context.Context, report *model.DailyReport) {
	m.Called(ctx, report)
}

func (m *MockPublisher) PublishDailyReport(ctx context.Context, report *model.DailyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
