// Package scheduler runs named recurring jobs with single-flight semantics.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/SscSPs/currency_rates_bot/internal/platform/logging"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"
)

var (
	ErrUnknownJob   = errors.New("unknown job")
	ErrDuplicateJob = errors.New("job already registered")
	ErrStopped      = errors.New("scheduler stopped")
)

// JobFunc is the body of a job. A returned error is logged and recorded; it
// never disables future runs.
type JobFunc func(ctx context.Context) error

// Job is a named unit of recurring work. An empty Schedule registers a job
// that only runs through Trigger.
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      JobFunc
}

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Status is a point-in-time view of a registered job.
type Status struct {
	Name           string
	Schedule       string
	State          State
	Runs           int64
	Failures       int64
	Skipped        int64
	LastStartedAt  time.Time
	LastFinishedAt time.Time
	LastError      string
	NextRunAt      time.Time
}

// Locker provides cross-process mutual exclusion. TryLock must not block
// waiting for a held lock; it returns ErrLockNotAcquired instead.
type Locker interface {
	TryLock(ctx context.Context, key string) (func(context.Context) error, error)
}

var ErrLockNotAcquired = errors.New("lock not acquired")

const (
	defaultWorkerPoolSize = 8
	lockKeyPrefix         = "currency-rates-bot:job:"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule validates a schedule expression. An expression that never
// matches a calendar time, such as "0 0 30 2 *", is rejected.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("invalid schedule %q: never fires", expr)
	}
	return sched, nil
}

type entry struct {
	job      Job
	schedule cron.Schedule

	mu     sync.Mutex
	status Status
}

func (en *entry) snapshot() Status {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.status
}

// Engine owns the job registry, the per-name guards and the worker pool.
type Engine struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	locker   Locker
	poolSize int64
	pool     *semaphore.Weighted
	now      func() time.Time

	mu      sync.Mutex
	jobs    map[string]*entry
	order   []string
	guards  map[string]*atomic.Bool
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLocker adds a distributed lock taken around every run.
func WithLocker(l Locker) Option {
	return func(e *Engine) { e.locker = l }
}

// WithWorkerPool bounds how many job bodies execute at once.
func WithWorkerPool(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.poolSize = int64(size)
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		logger:   slog.Default(),
		poolSize: defaultWorkerPoolSize,
		now:      time.Now,
		jobs:     make(map[string]*entry),
		guards:   make(map[string]*atomic.Bool),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "scheduler"))
	e.pool = semaphore.NewWeighted(e.poolSize)
	return e
}

// Register adds a job. Jobs registered after Start begin ticking immediately.
func (e *Engine) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("job requires a name and a body")
	}
	var sched cron.Schedule
	if job.Schedule != "" {
		var err error
		if sched, err = ParseSchedule(job.Schedule); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.jobs[job.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}
	en := &entry{
		job:      job,
		schedule: sched,
		status:   Status{Name: job.Name, Schedule: job.Schedule, State: StateIdle},
	}
	e.jobs[job.Name] = en
	e.order = append(e.order, job.Name)
	if e.started && sched != nil && e.ctx.Err() == nil {
		e.startLoop(en)
	}
	e.logger.Info("Job registered", slog.String("job", job.Name), slog.String("schedule", job.Schedule))
	return nil
}

// Start launches the tick loop of every scheduled job. Cancelling ctx has the
// same effect as Stop without the wait.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	if e.ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	for _, name := range e.order {
		if en := e.jobs[name]; en.schedule != nil {
			e.startLoop(en)
		}
	}
	e.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			e.cancel()
		case <-e.ctx.Done():
		}
	}()
	e.logger.Info("Scheduler started", slog.Int("jobs", len(e.order)))
}

// Stop cancels running jobs and waits for every loop and run to return.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.cancel()
	e.mu.Unlock()
	e.wg.Wait()
	e.logger.Info("Scheduler stopped")
}

// Trigger runs a registered job now. It reports false when a run of the job
// is already in flight.
func (e *Engine) Trigger(name string) (bool, error) {
	e.mu.Lock()
	en, ok := e.jobs[name]
	e.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if e.ctx.Err() != nil {
		return false, ErrStopped
	}
	return e.dispatch(name, en.job.Timeout, en.job.Run, en, "trigger")
}

// RunOnce runs fn under the single-flight guard of name, which may or may not
// be a registered job. It reports false when the name is busy and ErrStopped
// once the engine is stopped.
func (e *Engine) RunOnce(name string, timeout time.Duration, fn JobFunc) (bool, error) {
	if e.ctx.Err() != nil {
		return false, ErrStopped
	}
	e.mu.Lock()
	en := e.jobs[name]
	e.mu.Unlock()
	return e.dispatch(name, timeout, fn, en, "on_demand")
}

// Statuses returns job statuses in registration order.
func (e *Engine) Statuses() []Status {
	e.mu.Lock()
	entries := make([]*entry, 0, len(e.order))
	for _, name := range e.order {
		entries = append(entries, e.jobs[name])
	}
	e.mu.Unlock()

	out := make([]Status, 0, len(entries))
	for _, en := range entries {
		out = append(out, en.snapshot())
	}
	return out
}

func (e *Engine) guard(name string) *atomic.Bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.guards[name]
	if !ok {
		g = new(atomic.Bool)
		e.guards[name] = g
	}
	return g
}

// startLoop must be called with e.mu held.
func (e *Engine) startLoop(en *entry) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			next := en.schedule.Next(e.now())
			if next.IsZero() {
				e.logger.Warn("Schedule has no next run, tick loop stopped", slog.String("job", en.job.Name))
				return
			}
			en.mu.Lock()
			en.status.NextRunAt = next
			en.mu.Unlock()

			timer := time.NewTimer(time.Until(next))
			select {
			case <-e.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				_, _ = e.dispatch(en.job.Name, en.job.Timeout, en.job.Run, en, "tick")
			}
		}
	}()
}

// dispatch claims the guard and starts the run in the background. A busy
// guard means the tick is dropped.
func (e *Engine) dispatch(name string, timeout time.Duration, fn JobFunc, en *entry, source string) (bool, error) {
	g := e.guard(name)
	if !g.CompareAndSwap(false, true) {
		e.skip(name, en, "overlap")
		e.logger.Debug("Run skipped, previous run still in flight", slog.String("job", name), slog.String("source", source))
		return false, nil
	}

	e.mu.Lock()
	if e.ctx.Err() != nil {
		e.mu.Unlock()
		g.Store(false)
		return false, ErrStopped
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer g.Store(false)
		e.execute(name, timeout, fn, en, source)
	}()
	return true, nil
}

func (e *Engine) skip(name string, en *entry, reason string) {
	e.metrics.RecordTickSkipped(name, reason)
	if en != nil {
		en.mu.Lock()
		en.status.Skipped++
		en.mu.Unlock()
	}
}

func (e *Engine) execute(name string, timeout time.Duration, fn JobFunc, en *entry, source string) {
	logger := e.logger.With(slog.String("job", name), slog.String("source", source))

	if err := e.pool.Acquire(e.ctx, 1); err != nil {
		return
	}
	defer e.pool.Release(1)

	runCtx, cancel := e.ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(e.ctx, timeout)
	}
	defer cancel()
	runCtx = logging.WithLogger(runCtx, logger)

	if e.locker != nil {
		unlock, err := e.locker.TryLock(runCtx, lockKeyPrefix+name)
		if err != nil {
			if errors.Is(err, ErrLockNotAcquired) {
				e.skip(name, en, "locked")
				logger.Debug("Run skipped, lock held elsewhere")
				return
			}
			e.finish(name, en, e.now(), fmt.Errorf("acquire job lock: %w", err), "error")
			logger.Error("Failed to acquire job lock", slog.String("error", err.Error()))
			return
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				logger.Warn("Failed to release job lock", slog.String("error", err.Error()))
			}
		}()
	}

	started := e.now()
	if en != nil {
		en.mu.Lock()
		en.status.State = StateRunning
		en.status.LastStartedAt = started
		en.mu.Unlock()
	}
	e.metrics.SetJobRunning(name, true)
	defer e.metrics.SetJobRunning(name, false)

	outcome, err := e.safeRun(runCtx, fn)
	if err != nil {
		logger.Error("Job run failed", slog.String("error", err.Error()), slog.String("outcome", outcome))
	} else {
		logger.Debug("Job run finished", slog.Duration("took", e.now().Sub(started)))
	}
	e.finish(name, en, started, err, outcome)
}

func (e *Engine) safeRun(ctx context.Context, fn JobFunc) (outcome string, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	if err := fn(ctx); err != nil {
		return "error", err
	}
	return "ok", nil
}

func (e *Engine) finish(name string, en *entry, started time.Time, err error, outcome string) {
	finished := e.now()
	e.metrics.RecordJobRun(name, outcome, finished.Sub(started).Seconds())
	if en == nil {
		return
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	en.status.State = StateIdle
	en.status.Runs++
	en.status.LastFinishedAt = finished
	if err != nil {
		en.status.Failures++
		en.status.LastError = err.Error()
	} else {
		en.status.LastError = ""
	}
}
