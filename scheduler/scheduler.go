package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Task is a named unit of periodic work. Every run gets a fresh context
// bounded by Timeout.
type Task struct {
	Name    string
	Every   time.Duration
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler drives periodic tasks. Run failures, timeouts and panics are
// logged and never crash the process; the next tick proceeds normally.
type Scheduler struct {
	cron    *cron.Cron
	baseCtx context.Context
}

// New creates a scheduler whose task contexts descend from baseCtx
func New(baseCtx context.Context) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Scheduler{
		cron:    cron.New(),
		baseCtx: baseCtx,
	}
}

// Add registers a task at its fixed interval
func (s *Scheduler) Add(task Task) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", task.Every), func() {
		s.runOnce(task)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", task.Name, err)
	}
	return nil
}

// runOnce executes one tick of a task under its timeout. A run that
// overstays its deadline is abandoned; its context is cancelled and the
// goroutine is left to drain.
func (s *Scheduler) runOnce(task Task) {
	ctx, cancel := context.WithTimeout(s.baseCtx, task.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- task.Run(ctx)
	}()

	start := time.Now()
	select {
	case err := <-done:
		if err != nil {
			log.Errorf("Task %s failed after %s: %v", task.Name, time.Since(start).Round(time.Millisecond), err)
			return
		}
		log.Debugf("Task %s completed in %s", task.Name, time.Since(start).Round(time.Millisecond))
	case <-ctx.Done():
		log.Errorf("Task %s exceeded its %s timeout, abandoning run", task.Name, task.Timeout)
	}
}

// Start begins ticking. Non-blocking.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop halts scheduling and waits for in-flight runs the cron is tracking
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}
