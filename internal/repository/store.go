package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories sharing one database handle
type Store interface {
	Users() UserRepository
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Inventory() InventoryRepository
	Routes() RouteRepository
	RouteSessions() RouteSessionRepository
	DailyReports() DailyReportRepository

	// Transaction runs fn against a store bound to a single database transaction.
	// The transaction is rolled back when fn returns an error.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// store implements Store
type store struct {
	db *gorm.DB
}

// NewStore creates a new store
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository                 { return NewUserRepository(s.db) }
func (s *store) Customers() CustomerRepository         { return NewCustomerRepository(s.db) }
func (s *store) Products() ProductRepository           { return NewProductRepository(s.db) }
func (s *store) Orders() OrderRepository               { return NewOrderRepository(s.db) }
func (s *store) OrderItems() OrderItemRepository       { return NewOrderItemRepository(s.db) }
func (s *store) Inventory() InventoryRepository        { return NewInventoryRepository(s.db) }
func (s *store) Routes() RouteRepository               { return NewRouteRepository(s.db) }
func (s *store) RouteSessions() RouteSessionRepository { return NewRouteSessionRepository(s.db) }
func (s *store) DailyReports() DailyReportRepository   { return NewDailyReportRepository(s.db) }

// Transaction runs fn inside a database transaction
func (s *store) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
