package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
)

// ServiceName is the health service name reported alongside the server-wide "" entry.
const ServiceName = "rental.api"

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer serves grpc.health.v1.Health backed by a database ping.
type HealthServer struct {
	health   *health.Server
	db       Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewHealthServer(db Pinger, interval time.Duration) *HealthServer {
	return &HealthServer{
		health:   health.NewServer(),
		db:       db,
		interval: interval,
		timeout:  2 * time.Second,
	}
}

// Register attaches the health service to s.
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Refresh pings the database once and publishes the result.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database health check failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Run refreshes on every tick until ctx is done, then marks the server as shutting down.
func (h *HealthServer) Run(ctx context.Context) {
	h.Refresh(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}
