package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "solar_eda/docs"
	"solar_eda/internal/analysis"
	"solar_eda/internal/dataset"
	"solar_eda/internal/handlers"
	"solar_eda/internal/logger"
	"solar_eda/internal/repository"
	"solar_eda/internal/repository/db"
	"solar_eda/internal/server"
	"solar_eda/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.8.12 init --dir ./,../internal/handlers --generalInfo main.go --output ../docs --outputTypes go

const shutdownTimeout = 10 * time.Second

// @title                       Solar EDA API
// @version                     1.0
// @description                 Data-quality analysis of solar irradiance site files.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := loadConfig(viper.New(), "configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DBPath, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	src, err := newSource(cfg)
	if err != nil {
		log.Fatalw("failed to init dataset source", "err", err)
	}
	catalog := dataset.NewCatalog(src, cfg.DatasetNames...)
	log.Infow("dataset_catalog_ready", "names", catalog.Names(), "policy", cfg.NegativePolicy)

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(service.Deps{
		Repos:      repos,
		Pipeline:   analysis.NewPipeline(catalog, cfg.NegativePolicy, cfg.HistogramBins),
		Catalog:    catalog,
		Metrics:    service.NewMetrics(prometheus.DefaultRegisterer),
		SigningKey: cfg.SigningKey,
		TokenTTL:   cfg.TokenTTL,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		ResponseLimit:  cfg.ResponseLimit,
	})

	srv := server.New(server.Timeouts{Write: cfg.WriteTimeout})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

// newSource picks S3 when a bucket is configured, the local directory otherwise.
func newSource(cfg appConfig) (dataset.Source, error) {
	if cfg.S3.Bucket != "" {
		s3, err := dataset.NewS3Source(cfg.S3)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	return dataset.NewDirSource(cfg.DatasetsDir), nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
