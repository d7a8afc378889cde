package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/cache"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/inspecting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level: %s, using 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	salesRepo := repository.NewSalesRepository(pgConn)
	tableRepo := repository.NewTableRepository(pgConn)

	tableCache := cache.NewTableCache(
		salesRepo.FetchAll,
		time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
	)

	authenticator := authenticating.NewService(cfg)
	reportService := reporting.NewService(tableCache)
	ingestService := ingesting.NewService(tableRepo, tableCache)
	inspectService := inspecting.NewService(tableRepo)

	cacheRefreshService := scheduler.NewCacheRefreshService(tableCache, cfg)
	if err := cacheRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start the cache refresh scheduler")
	}
	defer cacheRefreshService.Stop()

	server, err := api.New(
		cfg,
		authenticator,
		reportService,
		ingestService,
		inspectService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger sets the log format used across the process
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn opens and checks the database connection
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
