package workers

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const defaultRestartDelay = 200 * time.Millisecond

// Supervisor keeps the relay background workers alive.
// A worker returning nil is done for good. A returned error or a panic restarts it
// after restartDelay, until the supervisor context ends.
type Supervisor struct {
	log          *slog.Logger
	restartDelay time.Duration
	workers      []contract.Worker
	wg           sync.WaitGroup
	restarts     atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSupervisor(log *slog.Logger, restartDelay time.Duration) *Supervisor {
	if restartDelay <= 0 {
		restartDelay = defaultRestartDelay
	}
	return &Supervisor{log: log, restartDelay: restartDelay}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every added worker and blocks until all of them returned.
func (s *Supervisor) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	for _, worker := range s.workers {
		s.Start(ctx, worker)
	}
	s.wg.Wait()
}

// Start supervises one more worker, bound to ctx.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.supervise(ctx, worker)
	}()
}

// Stop cancels every worker; Run returns once they all finished.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Restarts counts the restarts of every worker since the supervisor was built.
func (s *Supervisor) Restarts() int64 {
	return s.restarts.Load()
}

func (s *Supervisor) supervise(ctx context.Context, worker contract.Worker) {
	log := s.log.With("worker", contract.GetWorkerName(worker))
	for attempt := 1; ; attempt++ {
		err := runOnce(ctx, worker)
		switch {
		case ctx.Err() != nil:
			log.Info("Worker stopped")
			return
		case err == nil:
			log.Info("Worker finished")
			return
		}

		log.Warn("Worker failed, restarting", "attempt", attempt, "in", s.restartDelay, "error", err)
		select {
		case <-ctx.Done():
			log.Info("Worker stopped")
			return
		case <-time.After(s.restartDelay):
			s.restarts.Add(1)
		}
	}
}

// runOnce turns a panic of the worker into an errors.ErrWorkerPanic.
func runOnce(ctx context.Context, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return worker.Run(ctx)
}
