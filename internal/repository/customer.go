package repository

import (
	"context"

	"gorm.io/gorm"

	"example.com/backstage/services/routedelivery/internal/model"
)

// CustomerRepository defines the interface for customer repository
type CustomerRepository interface {
	List(ctx context.Context) ([]*model.Customer, error)
	GetByID(ctx context.Context, id uint) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, translate(err)
	}
	return customer, nil
}
