// Package main starts the local backend emulation: identity endpoints
// and the generic row store the storefront client talks to, backed by
// PostgreSQL.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dammytech/dtxstore/internal/config"
	"github.com/dammytech/dtxstore/internal/db"
	"github.com/dammytech/dtxstore/internal/logger"
	"github.com/dammytech/dtxstore/internal/repository"
	"github.com/dammytech/dtxstore/internal/server/handler/http"
	"github.com/dammytech/dtxstore/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Load a .env file when present, then parse flags and env vars.
	_ = godotenv.Load()
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted rows in the background.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for accounts and the row store.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	rowRepo := repository.NewPostgresRowRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, options.JWTSecret)
	rowService := service.NewRowService(rowRepo)

	// Create HTTP handlers for the auth and rest endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	restHandler := &http.RestHandler{Rows: rowService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, restHandler, zapLogger, options.JWTSecret, options.AnonKey)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting devserver", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start devserver", zap.Error(err))
	}
}
