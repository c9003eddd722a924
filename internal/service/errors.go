package service

import (
	"context"
	"errors"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/events"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

// fail records the method exit and returns err as a domain error.
// Unclassified errors become server errors.
func fail(method string, err error, args ...any) error {
	if de, ok := domain.AsError(err); ok && de.Kind != domain.KindServer {
		logger.ExitMethod(method, append([]any{"code", de.Code}, args...)...)
		return err
	}
	logger.ExitMethodWithError(method, err, args...)
	if _, ok := domain.AsError(err); ok {
		return err
	}
	return domain.NewServerError("Server error", err)
}

// notFoundAs maps repository.ErrNotFound to a not-found domain error and
// passes anything else through.
func notFoundAs(err error, code, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFoundError(code, message)
	}
	return err
}

// publish sends a lifecycle event. Failures are logged and never returned.
func publish(ctx context.Context, publisher events.Publisher, topic string, data any) {
	if err := publisher.Publish(ctx, topic, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "topic", topic, "error", err)
	}
}
