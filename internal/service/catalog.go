package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// CreateCustomerRequest holds the fields of a new customer
type CreateCustomerRequest struct {
	Name          string              `json:"name" binding:"required,max=200"`
	Contact       string              `json:"contact" binding:"max=100"`
	Phone         string              `json:"phone" binding:"max=20"`
	Email         string              `json:"email" binding:"omitempty,email"`
	Address       string              `json:"address" binding:"required"`
	Latitude      *decimal.Decimal    `json:"latitude"`
	Longitude     *decimal.Decimal    `json:"longitude"`
	Schedule      string              `json:"schedule" binding:"max=100"`
	CreditDays    int                 `json:"creditDays" binding:"min=0"`
	WeeklyPattern model.WeeklyPattern `json:"weeklyPattern" binding:"omitempty,weekly_pattern"`
	IsActive      *bool               `json:"isActive"`
}

// CreateProductRequest holds the fields of a new product
type CreateProductRequest struct {
	Code           string           `json:"code" binding:"required,max=50"`
	WMSProductCode string           `json:"wmsProductCode" binding:"max=50"`
	Name           string           `json:"name" binding:"required,max=200"`
	Description    string           `json:"description"`
	Category       string           `json:"category" binding:"max=100"`
	Price          *decimal.Decimal `json:"price" binding:"required"`
	Unit           string           `json:"unit" binding:"max=20"`
	IsActive       *bool            `json:"isActive"`
}

// CatalogService manages customers and products
type CatalogService interface {
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*model.Customer, error)
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*model.Customer, error)

	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
}

type catalogService struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	log       *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(customers repository.CustomerRepository, products repository.ProductRepository, log *logrus.Logger) CatalogService {
	return &catalogService{
		customers: customers,
		products:  products,
		log:       log,
	}
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}
	return customers, nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get customer %d", id)
	}
	return customer, nil
}

func (s *catalogService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*model.Customer, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		return nil, NewValidationError("name and address are required")
	}
	if req.WeeklyPattern != nil && len(req.WeeklyPattern) != 7 {
		return nil, NewValidationError("weeklyPattern must have 7 entries, got %d", len(req.WeeklyPattern))
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	pattern := req.WeeklyPattern
	if pattern == nil {
		pattern = model.WeeklyPattern{false, false, false, false, false, false, false}
	}

	customer := &model.Customer{
		Name:          req.Name,
		Contact:       req.Contact,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Schedule:      req.Schedule,
		CreditDays:    req.CreditDays,
		IsActive:      boolOrDefault(req.IsActive, true),
		WeeklyPattern: pattern,
	}

	customer, err := s.customers.Create(ctx, customer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create customer")
	}

	s.log.WithField("customer_id", customer.ID).Info("Customer created")
	return customer, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get product %d", id)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, NewValidationError("code and name are required")
	}
	if req.Price == nil {
		return nil, NewValidationError("price is required")
	}
	if req.Price.IsNegative() {
		return nil, NewValidationError("price must not be negative")
	}

	unit := req.Unit
	if unit == "" {
		unit = "units"
	}

	product := &model.Product{
		Code:           req.Code,
		WMSProductCode: req.WMSProductCode,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Price:          *req.Price,
		Unit:           unit,
		IsActive:       boolOrDefault(req.IsActive, true),
	}

	product, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create product %s", req.Code)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"code":       product.Code,
	}).Info("Product created")
	return product, nil
}

var (
	minLatitude  = decimal.NewFromInt(-90)
	maxLatitude  = decimal.NewFromInt(90)
	minLongitude = decimal.NewFromInt(-180)
	maxLongitude = decimal.NewFromInt(180)
)

// validateCoordinates checks an optional coordinate pair
func validateCoordinates(lat, lng *decimal.Decimal) error {
	if (lat == nil) != (lng == nil) {
		return NewValidationError("latitude and longitude must be given together")
	}
	if lat == nil {
		return nil
	}
	if lat.LessThan(minLatitude) || lat.GreaterThan(maxLatitude) {
		return NewValidationError("latitude %s is out of range", lat.String())
	}
	if lng.LessThan(minLongitude) || lng.GreaterThan(maxLongitude) {
		return NewValidationError("longitude %s is out of range", lng.String())
	}
	return nil
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
