package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcapi "github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/api/grpc"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/api/grpc/interceptor"
	httpapi "github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/api/http"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/config"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/events"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository/postgres"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Vehicle Rental API...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_health", cfg.GetGRPCHealthAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "enabled", cfg.Email.Enabled, "from", cfg.Email.FromEmail)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := store.Repos()

	// Initialize Events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		nsqPublisher, err := events.NewNSQPublisher(cfg.Events.NSQAddress, cfg.Events.TopicPrefix)
		if err != nil {
			logger.Error("Failed to create NSQ producer", "error", err, "address", cfg.Events.NSQAddress)
			log.Fatalf("Failed to create NSQ producer: %v", err)
		}
		defer nsqPublisher.Stop()
		publisher = nsqPublisher
		logger.Info("Publishing lifecycle events to NSQ", "address", cfg.Events.NSQAddress, "prefix", cfg.Events.TopicPrefix)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email)
	authSvc := service.NewAuthService(store, repos, tokenManager)
	bookingSvc := service.NewBookingService(store, repos, cfg.PricingPolicy(), emailSvc, publisher)
	paymentSvc := service.NewPaymentService(store, repos, publisher)
	vehicleSvc := service.NewVehicleService(store, repos)
	customerSvc := service.NewCustomerService(repos.Customers)
	agentSvc := service.NewAgentService(repos.Agents)
	categorySvc := service.NewCategoryService(repos.Categories)
	maintenanceSvc := service.NewMaintenanceService(store, repos, cfg.UpcomingMaintenanceWindow(), cfg.Maintenance.MileageThreshold)
	analyticsSvc := service.NewAnalyticsService(repos)

	// Initialize HTTP handlers
	loginLimiter := httpapi.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:        httpapi.NewAuthHandler(authSvc),
		Bookings:    httpapi.NewBookingHandler(bookingSvc),
		Payments:    httpapi.NewPaymentHandler(paymentSvc),
		Vehicles:    httpapi.NewVehicleHandler(vehicleSvc),
		Customers:   httpapi.NewCustomerHandler(customerSvc),
		Agents:      httpapi.NewAgentHandler(agentSvc),
		Categories:  httpapi.NewCategoryHandler(categorySvc),
		Maintenance: httpapi.NewMaintenanceHandler(maintenanceSvc),
		Analytics:   httpapi.NewAnalyticsHandler(analyticsSvc),
		Health:      httpapi.NewHealthHandler(db),
	}, httpapi.NewAuthenticator(tokenManager, repos.Users), loginLimiter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go loginLimiter.Run(ctx, 10*time.Minute)

	// Set up gRPC health server
	var grpcServer *grpc.Server
	if addr := cfg.GetGRPCHealthAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		grpcServer = grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				interceptor.Recovery(),
				interceptor.RequestID(),
				interceptor.Logging(),
			),
		)
		healthSrv := grpcapi.NewHealthServer(db, 15*time.Second)
		healthSrv.Register(grpcServer)
		reflection.Register(grpcServer)
		go healthSrv.Run(ctx)

		go func() {
			logger.Info("gRPC health server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	logger.Info("Servers stopped. Goodbye!")
}
