package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/reviewserver/internal/middleware"

	"winsbygroup.com/reviewserver/internal/backup"
	"winsbygroup.com/reviewserver/internal/config"
	"winsbygroup.com/reviewserver/internal/customer"
	"winsbygroup.com/reviewserver/internal/demodata"
	"winsbygroup.com/reviewserver/internal/events"
	"winsbygroup.com/reviewserver/internal/graph"
	"winsbygroup.com/reviewserver/internal/item"
	"winsbygroup.com/reviewserver/internal/metrics"
	"winsbygroup.com/reviewserver/internal/review"
	"winsbygroup.com/reviewserver/internal/sqlite"

	apihttp "winsbygroup.com/reviewserver/internal/http/api"
)

type Server struct {
	Echo      *echo.Echo
	HTTP      *http.Server
	DB        *sqlx.DB
	Publisher events.Publisher
	Metrics   *metrics.Metrics
}

func Build(cfg *config.Config, log *zap.Logger) (*Server, error) {
	//
	// Database
	//
	isNewDB := false
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		isNewDB = true
		log.Info("Creating database", zap.String("path", cfg.DBPath), zap.String("source", cfg.DBPathSource))
	} else {
		log.Info("Opening database", zap.String("path", cfg.DBPath), zap.String("source", cfg.DBPathSource))
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := sqlite.RunMigrations(db, log); err != nil {
		db.Close()
		return nil, err
	}

	// Load demo data if requested and database is new
	if cfg.DemoMode && isNewDB {
		if err := demodata.Load(context.Background(), db); err != nil {
			db.Close()
			return nil, errors.New("failed to load demo data: " + err.Error())
		}
		log.Info("Demo data loaded")
	}

	//
	// Change events
	//
	publisher, err := events.Connect(cfg.AMQPURL, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("events: %w", err)
	}

	//
	// Domain services
	//
	customerSvc := customer.NewService(db)
	itemSvc := item.NewService(db)
	reviewSvc := review.NewService(db)
	graphSvc := graph.NewService(customerSvc, itemSvc, reviewSvc)
	backupSvc := backup.NewService(db, cfg.DBPath)

	m := metrics.New()

	//
	// Handlers
	//
	apiSvc := apihttp.NewService(
		customerSvc,
		itemSvc,
		reviewSvc,
		graphSvc,
		backupSvc,
		publisher,
		m,
		log,
	)
	apiHandler := apihttp.NewHandler(apiSvc)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(mwsvc.RequestID())
	e.Use(m.Middleware())
	e.Use(mwsvc.RequestLogger(log))
	e.Use(mwecho.Recover())
	e.Use(mwsvc.Version())

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		if !publisher.IsHealthy() {
			return c.String(http.StatusServiceUnavailable, "Event broker not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	e.GET("/metrics", m.Handler())

	// API
	apiGroup := e.Group("/api/v1")
	apihttp.RegisterRoutes(apiGroup, apiHandler)

	//
	// HTTP server
	//
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		Echo:      e,
		HTTP:      srv,
		DB:        db,
		Publisher: publisher,
		Metrics:   m,
	}, nil
}

// Close releases the broker connection and the database.
func (s *Server) Close() error {
	return errors.Join(s.Publisher.Close(), s.DB.Close())
}
