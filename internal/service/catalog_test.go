package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/repository"
)

func TestCreateCustomerDefaults(t *testing.T) {
	customers := new(MockCustomerRepository)
	customers.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.IsActive && len(c.WeeklyPattern) == 7 && c.Name == "Bodega Rosa"
	})).Return(&model.Customer{Name: "Bodega Rosa"}, nil)

	svc := NewCatalogService(customers, new(MockProductRepository), testLogger())
	customer, err := svc.CreateCustomer(context.Background(), &CreateCustomerRequest{
		Name:    "Bodega Rosa",
		Address: "Av. Arequipa 1200",
	})

	require.NoError(t, err)
	require.Equal(t, "Bodega Rosa", customer.Name)
	customers.AssertExpectations(t)
}

func TestCreateCustomerValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateCustomerRequest
	}{
		{name: "missing address", req: CreateCustomerRequest{Name: "Bodega Rosa"}},
		{name: "short pattern", req: CreateCustomerRequest{Name: "Bodega Rosa", Address: "Lima", WeeklyPattern: model.WeeklyPattern{true, false}}},
		{name: "latitude only", req: CreateCustomerRequest{Name: "Bodega Rosa", Address: "Lima", Latitude: decPtr("-12.04")}},
		{name: "latitude out of range", req: CreateCustomerRequest{Name: "Bodega Rosa", Address: "Lima", Latitude: decPtr("95"), Longitude: decPtr("-77")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := new(MockCustomerRepository)
			svc := NewCatalogService(customers, new(MockProductRepository), testLogger())

			_, err := svc.CreateCustomer(context.Background(), &tt.req)

			require.True(t, IsValidationError(err))
			customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateProductDuplicateCode(t *testing.T) {
	products := new(MockProductRepository)
	products.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateKey)

	svc := NewCatalogService(new(MockCustomerRepository), products, testLogger())
	_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Code:  "AGUA-20L",
		Name:  "Agua 20L",
		Price: decPtr("2.50"),
	})

	require.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	products := new(MockProductRepository)
	svc := NewCatalogService(new(MockCustomerRepository), products, testLogger())

	_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Code:  "AGUA-20L",
		Name:  "Agua 20L",
		Price: decPtr("-1"),
	})

	require.True(t, IsValidationError(err))
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductDefaultUnit(t *testing.T) {
	products := new(MockProductRepository)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.Unit == "units" && p.IsActive && p.Price.Equal(decimal.RequireFromString("2.5"))
	})).Return(&model.Product{Code: "AGUA-20L"}, nil)

	svc := NewCatalogService(new(MockCustomerRepository), products, testLogger())
	_, err := svc.CreateProduct(context.Background(), &CreateProductRequest{
		Code:  "AGUA-20L",
		Name:  "Agua 20L",
		Price: decPtr("2.50"),
	})

	require.NoError(t, err)
	products.AssertExpectations(t)
}
