package services

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordRun assigns a fresh id to a finished dispatch and stores it.
func RecordRun(
	ctx context.Context,
	repo ports.RunRepository,
	originAddress string,
	res *domain.DispatchResult,
) (*domain.DispatchRun, error) {
	run := &domain.DispatchRun{
		ID:            uuid.NewString(),
		OriginAddress: originAddress,
		CreatedAt:     time.Now().UTC(),
		Result:        *res,
	}
	if err := repo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}
