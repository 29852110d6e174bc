package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"example.com/backstage/services/routedelivery/config"
	"example.com/backstage/services/routedelivery/internal/cache"
	"example.com/backstage/services/routedelivery/internal/db"
	"example.com/backstage/services/routedelivery/internal/messagebus"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/search"
	"example.com/backstage/services/routedelivery/internal/service"
)

// app holds the connections and services shared by the commands
type app struct {
	db        *gorm.DB
	cache     cache.CacheClient
	bus       messagebus.Client
	publisher *service.WMSPublisher
	services  *service.Services
	log       *logrus.Logger
}

// newApp connects to every backing service and builds the service layer
func newApp(cfg *config.Config, log *logrus.Logger) (*app, error) {
	dbConn, err := db.Connect(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	cacheClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	messageBusClient, err := messagebus.NewClient(&cfg.MessageBus, log)
	if err != nil {
		return nil, err
	}

	searchClient, err := search.NewClient(&cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}

	store := repository.NewStore(dbConn)

	publisher := service.NewWMSPublisher(
		messageBusClient,
		searchClient,
		store.DailyReports(),
		cfg.MessageBus.WMSQueue,
		cfg.MessageBus.MaxRetries,
		log,
	)

	services := service.NewServices(store, cacheClient, publisher, service.Options{
		SessionTTL: cfg.Session.TTL,
		Location:   cfg.Location(),
	}, log)

	return &app{
		db:        dbConn,
		cache:     cacheClient,
		bus:       messageBusClient,
		publisher: publisher,
		services:  services,
		log:       log,
	}, nil
}

// health reports whether the database is reachable
func (a *app) health(ctx context.Context) error {
	if err := db.Ping(ctx, a.db); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// Close waits for pending publishes and releases every connection
func (a *app) Close(ctx context.Context) {
	a.publisher.Wait()

	if err := a.bus.Close(ctx); err != nil {
		a.log.Errorf("Message bus closure failed: %v", err)
	}
	if err := a.cache.Close(); err != nil {
		a.log.Errorf("Cache closure failed: %v", err)
	}
	if err := db.Close(a.db); err != nil {
		a.log.Errorf("Database closure failed: %v", err)
	}
}
