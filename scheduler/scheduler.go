// scheduler/scheduler.go
package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Locker serializes a sweep across processes. storage.SweepLocks is the
// Redis implementation; a nil Locker falls back to in-process guarding
// only.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// Task is one recurring idempotent sweep. On failure the next run is
// delayed by a doubling backoff, capped at MaxBackoff; a success resets
// it. Failures never abort the scheduler.
type Task struct {
	Name       string
	Every      time.Duration
	MaxBackoff time.Duration
	Run        func(ctx context.Context) error

	running  int32
	failures int
}

// Scheduler drives each registered task on its own interval,
// single-flight per task: a tick is skipped while a previous run of the
// same task is still in progress, locally or in another process.
type Scheduler struct {
	locker Locker
	tasks  []*Task
	wg     sync.WaitGroup
}

func New(locker Locker) *Scheduler {
	return &Scheduler{locker: locker}
}

func (s *Scheduler) Add(t Task) {
	if t.MaxBackoff == 0 {
		t.MaxBackoff = 8 * t.Every
	}
	s.tasks = append(s.tasks, &t)
}

// Start launches one loop per task and returns; Wait blocks until the
// context is cancelled and all loops drained.
func (s *Scheduler) Start(ctx context.Context) {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go func(t *Task) {
			defer s.wg.Done()
			s.loop(ctx, t)
		}(t)
	}
}

func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, t *Task) {
	ticker := time.NewTicker(t.Every)
	defer ticker.Stop()
	var notBefore time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Before(notBefore) {
				continue
			}
			if err := s.tick(ctx, t); err != nil {
				t.failures++
				delay := backoff(t.Every, t.MaxBackoff, t.failures)
				notBefore = now.Add(delay)
				log.Printf("[scheduler] %s failed (attempt %d, next in %s): %v", t.Name, t.failures, delay, err)
			} else {
				t.failures = 0
				notBefore = time.Time{}
			}
		}
	}
}

// backoff doubles the base interval per consecutive failure, stopping
// at the cap. Doubling halts as soon as the cap is reached so an
// arbitrarily long outage cannot overflow the duration.
func backoff(every, max time.Duration, failures int) time.Duration {
	delay := every
	for i := 1; i < failures && delay < max; i++ {
		delay *= 2
	}
	if delay > max {
		delay = max
	}
	return delay
}

func (s *Scheduler) tick(ctx context.Context, t *Task) error {
	if !atomic.CompareAndSwapInt32(&t.running, 0, 1) {
		return nil // previous run still in flight
	}
	defer atomic.StoreInt32(&t.running, 0)

	if s.locker != nil {
		ok, err := s.locker.Acquire(ctx, t.Name, 2*t.Every)
		if err != nil {
			return err
		}
		if !ok {
			return nil // another instance holds the sweep
		}
		defer func() {
			if err := s.locker.Release(ctx, t.Name); err != nil {
				log.Printf("[scheduler] release %s lock: %v", t.Name, err)
			}
		}()
	}
	return t.Run(ctx)
}
