package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"cashbook/internal/config"
	"cashbook/internal/database"
	"cashbook/internal/logger"
	"cashbook/internal/metrics"
	promcollector "cashbook/internal/metrics/prometheus"
	"cashbook/internal/models"
	"cashbook/internal/router"
	"cashbook/internal/services"
)

//go:generate swag init -g main.go -d .,../../internal/handlers -o ../../internal/docs --outputTypes go --parseDependency --parseInternal

// @title           Cashbook API
// @version         1.0
// @description     Multi-tenant household cashbook: books, transactions, categories, bank accounts, balances and reports.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	appConfig, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()

	if err := run(appConfig); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(appConfig *config.Config) error {
	log := logger.Get()

	location, err := time.LoadLocation(appConfig.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", appConfig.Timezone, err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	opts := router.Options{
		DB: dbManager.DB(),
		Defaults: services.Defaults{
			Currency:      appConfig.DefaultCurrency,
			ReportPeriod:  models.ReportPeriod(appConfig.DefaultReportPeriod),
			IncomeColor:   appConfig.IncomeColor,
			SpendingColor: appConfig.SpendingColor,
		},
		Location:  location,
		Collector: metrics.NoOpCollector{},
	}

	if appConfig.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		collector := promcollector.NewPrometheusCollector("cashbook")
		if err := collector.Register(registry); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		opts.Collector = collector
		opts.Gatherer = registry
	}

	engine := router.New(opts)

	log.Infow("Starting cashbook server",
		"port", appConfig.Port,
		"driver", appConfig.DBDriver,
		"timezone", location.String(),
		"metrics", appConfig.MetricsEnabled,
	)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
