package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Worker is a long-running background task with explicit lifecycle control.
type Worker interface {
	Start(ctx context.Context) error
	Stop()
	Name() string
}

// Manager owns the lifecycle of the service's background workers. Workers
// start in registration order and stop in reverse.
type Manager struct {
	mu      sync.Mutex
	workers []Worker
	logger  *zap.Logger
}

// NewManager creates a new worker manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a worker. Must be called before StartAll.
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = append(m.workers, w)
}

// StartAll starts every registered worker. If one fails to start, workers
// already running are stopped again so the caller never holds a half-started
// set.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	m.mu.Unlock()

	for i, w := range workers {
		if err := w.Start(ctx); err != nil {
			m.logger.Error("Failed to start worker",
				zap.String("worker", w.Name()),
				zap.Error(err))
			for j := i - 1; j >= 0; j-- {
				workers[j].Stop()
			}
			return err
		}
		m.logger.Info("Worker started", zap.String("worker", w.Name()))
	}
	return nil
}

// StopAll stops all workers in reverse registration order, blocking until
// each has finished its in-flight work.
func (m *Manager) StopAll() {
	m.mu.Lock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	m.mu.Unlock()

	for i := len(workers) - 1; i >= 0; i-- {
		workers[i].Stop()
		m.logger.Info("Worker stopped", zap.String("worker", workers[i].Name()))
	}
}

// Count returns the number of registered workers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workers)
}
