package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

// Scheduler fires one daily job per key (a user id) at a UTC wall-clock time.
// Scheduling a key again replaces its previous job. Job bodies run on the pool,
// never on the gocron loop.
type Scheduler struct {
	cron *gocron.Scheduler
	pool *Pool
	log  *zap.Logger

	mu   sync.Mutex
	jobs map[int64]*gocron.Job
}

// New creates a stopped scheduler in UTC.
func New(log *zap.Logger, pool *Pool) *Scheduler {
	return &Scheduler{
		cron: gocron.NewScheduler(time.UTC),
		pool: pool,
		log:  log.Named("scheduler"),
		jobs: make(map[int64]*gocron.Job),
	}
}

func tagFor(key int64) string {
	return fmt.Sprintf("user:%d", key)
}

// ScheduleDaily registers task to run every day at `at` UTC under key,
// cancelling any job previously registered for the same key.
func (s *Scheduler) ScheduleDaily(key int64, at domain.Clock, name string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(key)

	job, err := s.cron.Every(1).Day().At(at.String()).Tag(tagFor(key)).Do(func() {
		if _, err := s.pool.Submit(name, task); err != nil {
			s.log.Error("dispatch failed", zap.Int64("key", key), zap.String("task", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s at %s: %w", name, at, err)
	}
	s.jobs[key] = job
	s.log.Info("job scheduled", zap.Int64("key", key), zap.String("at", at.String()), zap.String("task", name))
	return nil
}

// Cancel removes the job registered under key, if any.
func (s *Scheduler) Cancel(key int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(key)
}

func (s *Scheduler) removeLocked(key int64) {
	job, ok := s.jobs[key]
	if !ok {
		return
	}
	s.cron.RemoveByReference(job)
	delete(s.jobs, key)
}

// RunNow fires the job for key immediately, outside its schedule.
// The scheduler must be started.
func (s *Scheduler) RunNow(key int64) error {
	s.mu.Lock()
	_, ok := s.jobs[key]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no job for key %d", key)
	}
	return s.cron.RunByTag(tagFor(key))
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Submit runs a one-off task on the pool.
func (s *Scheduler) Submit(name string, task Task) error {
	_, err := s.pool.Submit(name, task)
	return err
}

// Start launches the timing loop in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop halts the timing loop and waits for running tasks.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.pool.Stop()
}
