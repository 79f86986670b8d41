// Package main initializes and starts the taskkeeper HTTP server,
// setting up configuration, logging, the database connection,
// repositories, services, middleware, and handlers.
package main

import (
	"cmp"
	"fmt"
	"strings"

	nethttp "net/http"

	"github.com/avelichko/taskkeeper/internal/config"
	"github.com/avelichko/taskkeeper/internal/db"
	"github.com/avelichko/taskkeeper/internal/logger"
	"github.com/avelichko/taskkeeper/internal/middleware"
	"github.com/avelichko/taskkeeper/internal/repository"
	"github.com/avelichko/taskkeeper/internal/server/handler/http"
	"github.com/avelichko/taskkeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// The signing secret has no usable default.
	if options.JWTSecret == "" {
		zapLogger.Fatal("token signing secret is not configured")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and tasks.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	taskRepo := repository.NewPostgresTaskRepository(postgresDB)

	// Initialize business-logic services.
	hasher := service.NewPasswordHasher()
	tokens := service.NewTokenService(options)
	authService := service.NewAuthService(userRepo, hasher, tokens)
	taskService := service.NewTaskService(taskRepo)

	// Create HTTP handlers for auth and task endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	taskHandler := &http.TaskHandler{TaskService: taskService}

	// Build the router with middleware and routes.
	authMiddleware := middleware.BearerAuth(tokens, authService)
	corsOrigins := strings.Split(options.CORSOrigins, ",")
	router := http.NewRouter(authHandler, taskHandler, authMiddleware, corsOrigins, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
