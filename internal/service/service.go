package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/repository"
)

// Services groups the business logic operations exposed over HTTP
type Services struct {
	Auth          AuthService
	Catalog       CatalogService
	Orders        OrderService
	Delivery      DeliveryService
	Inventory     InventoryService
	Routes        RouteService
	RouteSessions RouteSessionService
	Statistics    StatisticsService
}

// Options holds the settings shared by the services
type Options struct {
	SessionTTL time.Duration
	Location   *time.Location
}

// NewServices creates every service over one store
func NewServices(
	store repository.Store,
	cacheClient cache.CacheClient,
	publisher Publisher,
	opts Options,
	log *logrus.Logger,
) *Services {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Services{
		Auth:          NewAuthService(store.Users(), cacheClient, opts.SessionTTL, log),
		Catalog:       NewCatalogService(store.Customers(), store.Products(), log),
		Orders:        NewOrderService(store, cacheClient, log),
		Delivery:      NewDeliveryService(store, cacheClient, publisher, log),
		Inventory:     NewInventoryService(store, cacheClient, log),
		Routes:        NewRouteService(store.Routes(), log),
		RouteSessions: NewRouteSessionService(store, cacheClient, publisher, loc, log),
		Statistics:    NewStatisticsService(store, cacheClient, loc, log),
	}
}
