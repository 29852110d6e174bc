package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/config"
	"example.com/backstage/services/routedelivery/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	config     *config.Config
	httpServer *http.Server
	log        *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	services *service.Services,
	health HealthCheck,
	nrApp *newrelic.Application,
	log *logrus.Logger,
) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)

	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()

	mw := NewMiddleware(log)
	router.Use(mw.RequestID())
	router.Use(mw.Recover())
	router.Use(mw.Logger())
	router.Use(mw.CORS(cfg.Server.CorsWhiteList))
	router.Use(mw.Metrics())

	// Add New Relic middleware if enabled
	if nrApp != nil {
		router.Use(nrgin.Middleware(nrApp))
	}

	handler := NewHandler(services, cfg.Session, cfg.Location(), health)
	handler.RegisterRoutes(router)

	return &Server{
		router: router,
		config: cfg,
		log:    log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}, nil
}

// Router exposes the gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Infof("Starting server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
