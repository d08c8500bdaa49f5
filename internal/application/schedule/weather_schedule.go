package schedule

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"weather-collector/internal/config"
	"weather-collector/internal/domain/model"
	"weather-collector/internal/domain/usecase/weather"
	"weather-collector/pkg/log"
	"weather-collector/pkg/msg"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Locker keeps a single active scheduler across replicas. *redis.Lock satisfies it.
type Locker interface {
	Lock(ctx context.Context) error
	AutoRefresh(ctx context.Context) <-chan error
	Unlock(ctx context.Context) error
	IsLocked(ctx context.Context) (bool, error)
	Key() string
}

type lockState string

const (
	lockDisabled lockState = "DISABLED"
	lockPending  lockState = "PENDING"
	lockHeld     lockState = "HELD"
	lockLost     lockState = "LOST"
	lockReleased lockState = "RELEASED"
)

// WeatherScheduler triggers weather collection cycles on a cron expression.
// Cycles never overlap; a trigger firing while a cycle runs is skipped.
type WeatherScheduler struct {
	cron    *cron.Cron
	job     cron.Job
	useCase weather.UseCase
	lock    Locker
	config  config.ScheduleConfig
	clock   func() time.Time

	ctx  context.Context
	jobs sync.WaitGroup
	done chan struct{}

	running atomic.Bool
	mu      sync.RWMutex
	state   lockState
	lastRun *model.LastRun
}

// NewWeatherScheduler creates a scheduler for useCase. A nil lock runs without coordination.
func NewWeatherScheduler(useCase weather.UseCase, cfg config.ScheduleConfig, lock Locker) *WeatherScheduler {
	state := lockDisabled
	if lock != nil {
		state = lockPending
	}

	s := &WeatherScheduler{
		cron:    cron.New(),
		useCase: useCase,
		lock:    lock,
		config:  cfg,
		clock:   func() time.Time { return time.Now().UTC() },
		ctx:     context.Background(),
		done:    make(chan struct{}),
		state:   state,
	}
	s.job = cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).Then(cron.FuncJob(s.ExecuteScheduledTask))
	return s
}

// Start registers the cron job and runs the scheduler in the background until ctx ends.
// An invalid cron expression is reported immediately.
func (s *WeatherScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddJob(s.config.Cron, s.job); err != nil {
		return err
	}
	s.ctx = ctx

	go s.run(ctx)
	return nil
}

func (s *WeatherScheduler) run(ctx context.Context) {
	defer close(s.done)
	defer log.Info(msg.GetMessage("weather.schedule.stopped"))

	if s.lock == nil {
		s.lead(ctx, nil)
		return
	}

	for s.acquire(ctx) {
		err := s.lead(ctx, s.lock.AutoRefresh(ctx))
		if ctx.Err() != nil {
			s.release()
			return
		}
		s.setState(lockLost)
		log.Error(msg.GetMessage("weather.schedule.lock-lost", err), zap.String("lock", s.lock.Key()), zap.Error(err))
	}
}

// acquire blocks until the lock is held or ctx ends, retrying every LockRetryInterval.
func (s *WeatherScheduler) acquire(ctx context.Context) bool {
	for {
		err := s.lock.Lock(ctx)
		if err == nil {
			s.setState(lockHeld)
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		s.setState(lockPending)
		log.Warn(msg.GetMessage("weather.schedule.lock-failed", s.retryInterval(), err), zap.String("lock", s.lock.Key()), zap.Error(err))

		timer := time.NewTimer(s.retryInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

// lead runs cron until ctx ends or refreshErr reports a lost lock
func (s *WeatherScheduler) lead(ctx context.Context, refreshErr <-chan error) error {
	s.cron.Start()
	log.Info(msg.GetMessage("weather.schedule.started", s.config.Cron))

	if s.config.RunOnStart {
		s.jobs.Add(1)
		go func() {
			defer s.jobs.Done()
			s.job.Run()
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-refreshErr:
	}

	<-s.cron.Stop().Done()
	s.jobs.Wait()
	return err
}

func (s *WeatherScheduler) release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.lock.Unlock(ctx); err != nil {
		log.Warn(msg.GetMessage("weather.schedule.lock-release-failed", err), zap.String("lock", s.lock.Key()), zap.Error(err))
	}
	s.setState(lockReleased)
}

func (s *WeatherScheduler) retryInterval() time.Duration {
	if s.config.LockRetryInterval > 0 {
		return s.config.LockRetryInterval
	}
	return time.Minute
}

// Wait blocks until the scheduler stopped after its context ended.
func (s *WeatherScheduler) Wait() {
	<-s.done
}

// ExecuteScheduledTask runs one collection cycle tagged with a fresh request id
func (s *WeatherScheduler) ExecuteScheduledTask() {
	s.RunNow()
}

// RunNow runs one collection cycle unless another one is in progress.
// The second return value is false when the cycle was skipped.
func (s *WeatherScheduler) RunNow() (*model.LastRun, bool) {
	if !s.running.CompareAndSwap(false, true) {
		log.Warn(msg.GetMessage("weather.job.overlap"))
		return nil, false
	}
	defer s.running.Store(false)

	requestID := uuid.New().String()
	startedAt := s.clock()

	log.Info(msg.GetMessage("weather.job.triggered"), zap.String("request_id", requestID))

	outcome := s.useCase.Run(s.ctx)

	lastRun := &model.LastRun{
		RequestID:  requestID,
		Outcome:    string(outcome),
		StartedAt:  startedAt.Format(time.RFC3339),
		FinishedAt: s.clock().Format(time.RFC3339),
	}
	s.mu.Lock()
	s.lastRun = lastRun
	s.mu.Unlock()

	log.Info(msg.GetMessage("weather.job.finished", outcome), zap.String("request_id", requestID), zap.String("outcome", string(outcome)))

	result := *lastRun
	return &result, true
}

// LastRun returns the most recent cycle, or nil before the first one finished
func (s *WeatherScheduler) LastRun() *model.LastRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRun == nil {
		return nil
	}
	lastRun := *s.lastRun
	return &lastRun
}

// LockHealth maps the lock state: HELD is UP once Redis confirms ownership, LOST is DOWN,
// anything else UNKNOWN.
func (s *WeatherScheduler) LockHealth() model.ComponentHealthStatus {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	details := map[string]string{"state": string(state)}
	if s.lock != nil {
		details["key"] = s.lock.Key()
	}

	status := model.StatusUnknown
	switch state {
	case lockHeld:
		status = s.verifyOwnership(details)
	case lockLost:
		status = model.StatusDown
	}

	return model.ComponentHealthStatus{Status: status, Details: details}
}

func (s *WeatherScheduler) verifyOwnership(details map[string]string) model.HealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	owned, err := s.lock.IsLocked(ctx)
	if err != nil {
		details["error"] = err.Error()
		return model.StatusDown
	}
	details["owned"] = strconv.FormatBool(owned)
	if !owned {
		return model.StatusDown
	}
	return model.StatusUp
}

func (s *WeatherScheduler) setState(state lockState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// cronLogger routes cron's internal logging through pkg/log
type cronLogger struct{}

func (cronLogger) Info(message string, keysAndValues ...interface{}) {
	log.Debugw(message, keysAndValues...)
}

func (cronLogger) Error(err error, message string, keysAndValues ...interface{}) {
	log.Errorw(message, append(keysAndValues, "error", err)...)
}
