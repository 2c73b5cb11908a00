package ports

import (
	"context"
	"dispatch-route-service/internal/domain"
	"errors"
)

var ErrRunNotFound = errors.New("dispatch run not found")

// Port: a boundary for persisting completed dispatch runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.DispatchRun) error
	// Return ErrRunNotFound when no run has the given id.
	GetRun(ctx context.Context, id string) (*domain.DispatchRun, error)
}
