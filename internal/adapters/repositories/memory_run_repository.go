package repositories

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"errors"
	"sync"
)

// MemoryRunRepository keeps runs in process; used when no DATABASE_URL is set.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*domain.DispatchRun
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{runs: map[string]*domain.DispatchRun{}}
}

func (m *MemoryRunRepository) SaveRun(_ context.Context, run *domain.DispatchRun) error {
	if run == nil || run.ID == "" {
		return errors.New("save run: missing id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *MemoryRunRepository) GetRun(_ context.Context, id string) (*domain.DispatchRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ports.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}
