package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type MockPinger struct{ mock.Mock }

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func checkStatus(t *testing.T, h *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer_Refresh(t *testing.T) {
	db := new(MockPinger)
	db.On("PingContext", mock.Anything).Return(nil).Once()
	db.On("PingContext", mock.Anything).Return(errors.New("connection refused")).Once()
	h := NewHealthServer(db, time.Minute)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Refresh(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, h, ServiceName))

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Refresh(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ""))
	db.AssertExpectations(t)
}

func TestHealthServer_RunStopsWithContext(t *testing.T) {
	pinged := make(chan struct{}, 1)
	db := new(MockPinger)
	db.On("PingContext", mock.Anything).Run(func(mock.Arguments) {
		select {
		case pinged <- struct{}{}:
		default:
		}
	}).Return(nil)
	h := NewHealthServer(db, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	select {
	case <-pinged:
	case <-time.After(time.Second):
		t.Fatal("no ping on start")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ServiceName))
}
