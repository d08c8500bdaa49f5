package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"weather-collector/internal/config"
	"weather-collector/internal/domain/model"
	"weather-collector/internal/domain/usecase/weather"
)

type countingUseCase struct {
	mu      sync.Mutex
	calls   int
	outcome weather.Outcome
	started chan struct{}
	release chan struct{}
}

func newCountingUseCase(outcome weather.Outcome) *countingUseCase {
	return &countingUseCase{outcome: outcome, started: make(chan struct{}, 10)}
}

func (uc *countingUseCase) Run(context.Context) weather.Outcome {
	uc.mu.Lock()
	uc.calls++
	uc.mu.Unlock()

	uc.started <- struct{}{}
	if uc.release != nil {
		<-uc.release
	}
	return uc.outcome
}

func (uc *countingUseCase) Calls() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.calls
}

var errLockTaken = errors.New("failed to acquire lock after 11 attempts")

// fakeLock fails the first failures acquisitions (every one when failures < 0), then succeeds.
type fakeLock struct {
	mu          sync.Mutex
	failures    int
	attempts    int
	acquired    chan struct{}
	refreshErr  chan error
	unlocked    bool
	notOwned    bool
	isLockedErr error
}

func newFakeLock(failures int) *fakeLock {
	return &fakeLock{failures: failures, acquired: make(chan struct{}, 10), refreshErr: make(chan error, 1)}
}

func (l *fakeLock) Lock(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts++
	if l.failures < 0 || l.attempts <= l.failures {
		return errLockTaken
	}
	l.acquired <- struct{}{}
	return nil
}

func (l *fakeLock) AutoRefresh(ctx context.Context) <-chan error {
	errChan := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
			errChan <- ctx.Err()
		case err := <-l.refreshErr:
			errChan <- err
		}
	}()
	return errChan
}

func (l *fakeLock) Unlock(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocked = true
	return nil
}

func (l *fakeLock) IsLocked(context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.notOwned, l.isLockedErr
}

func (l *fakeLock) Key() string {
	return "weather_schedules::weather_collector_scheduler"
}

func (l *fakeLock) Unlocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unlocked
}

func (l *fakeLock) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}

func waitAcquired(t *testing.T, lock *fakeLock) {
	t.Helper()
	select {
	case <-lock.acquired:
	case <-time.After(2 * time.Second):
		t.Fatalf("lock was not acquired")
	}
}

func waitStarted(t *testing.T, uc *countingUseCase) {
	t.Helper()
	select {
	case <-uc.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("collection cycle did not start")
	}
}

func TestSchedulerRunsOnStartWithoutLock(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomePublished)
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h", RunOnStart: true}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitStarted(t, useCase)

	cancel()
	scheduler.Wait()

	if useCase.Calls() != 1 {
		t.Fatalf("cycles = %d, want 1", useCase.Calls())
	}
	lastRun := scheduler.LastRun()
	if lastRun == nil || lastRun.Outcome != "PUBLISHED" || lastRun.RequestID == "" {
		t.Fatalf("LastRun() = %+v", lastRun)
	}
	if health := scheduler.LockHealth(); health.Status != model.StatusUnknown || health.Details["state"] != "DISABLED" {
		t.Fatalf("LockHealth() = %+v", health)
	}
}

func TestSchedulerRejectsInvalidCron(t *testing.T) {
	scheduler := NewWeatherScheduler(newCountingUseCase(weather.OutcomeSkipped), config.ScheduleConfig{Cron: "not a cron"}, nil)

	if err := scheduler.Start(context.Background()); err == nil {
		t.Fatalf("Start() error = nil, want invalid cron expression")
	}
}

func TestSchedulerSkipsOverlappingCycles(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomeSkipped)
	useCase.release = make(chan struct{})
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h"}, nil)

	done := make(chan struct{})
	go func() {
		scheduler.job.Run()
		close(done)
	}()
	waitStarted(t, useCase)

	scheduler.job.Run()
	close(useCase.release)
	<-done

	if useCase.Calls() != 1 {
		t.Fatalf("cycles = %d, want 1", useCase.Calls())
	}
}

func TestSchedulerWaitsWhileLockIsTaken(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomePublished)
	lock := newFakeLock(-1)
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h", RunOnStart: true, LockRetryInterval: 5 * time.Millisecond}, lock)

	if health := scheduler.LockHealth(); health.Status != model.StatusUnknown || health.Details["state"] != "PENDING" {
		t.Fatalf("LockHealth() before start = %+v", health)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for lock.Attempts() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if lock.Attempts() < 3 {
		t.Fatalf("lock attempts = %d, want retries while taken", lock.Attempts())
	}
	if health := scheduler.LockHealth(); health.Status != model.StatusUnknown || health.Details["state"] != "PENDING" || health.Details["key"] != lock.Key() {
		t.Fatalf("LockHealth() while waiting = %+v", health)
	}

	cancel()
	scheduler.Wait()

	if useCase.Calls() != 0 {
		t.Fatalf("cycles = %d, want 0", useCase.Calls())
	}
	if lock.Unlocked() {
		t.Fatalf("lock never held was released")
	}
}

func TestSchedulerTakesOverOnceLockIsFree(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomePublished)
	lock := newFakeLock(1)
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h", RunOnStart: true, LockRetryInterval: 5 * time.Millisecond}, lock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitAcquired(t, lock)
	waitStarted(t, useCase)

	if lock.Attempts() != 2 {
		t.Fatalf("lock attempts = %d, want 2", lock.Attempts())
	}
	if health := scheduler.LockHealth(); health.Status != model.StatusUp || health.Details["state"] != "HELD" {
		t.Fatalf("LockHealth() = %+v", health)
	}

	cancel()
	scheduler.Wait()
	if useCase.Calls() != 1 {
		t.Fatalf("cycles = %d, want 1", useCase.Calls())
	}
}

func TestSchedulerReacquiresLostLock(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomePublished)
	lock := newFakeLock(0)
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h", RunOnStart: true, LockRetryInterval: 5 * time.Millisecond}, lock)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitAcquired(t, lock)
	waitStarted(t, useCase)

	lock.refreshErr <- errors.New("lock was not held by this client")

	waitAcquired(t, lock)
	waitStarted(t, useCase)

	cancel()
	scheduler.Wait()

	if lock.Attempts() != 2 {
		t.Fatalf("lock attempts = %d, want 2", lock.Attempts())
	}
	if useCase.Calls() != 2 {
		t.Fatalf("cycles = %d, want one per leadership", useCase.Calls())
	}
	if !lock.Unlocked() {
		t.Fatalf("lock was not released on shutdown")
	}
}

func TestLockHealth(t *testing.T) {
	tests := []struct {
		name        string
		state       lockState
		notOwned    bool
		isLockedErr error
		want        model.HealthStatus
	}{
		{name: "held and owned", state: lockHeld, want: model.StatusUp},
		{name: "held but owned elsewhere", state: lockHeld, notOwned: true, want: model.StatusDown},
		{name: "held but redis unreachable", state: lockHeld, isLockedErr: errors.New("dial tcp: connection refused"), want: model.StatusDown},
		{name: "lost", state: lockLost, want: model.StatusDown},
		{name: "pending", state: lockPending, want: model.StatusUnknown},
		{name: "released", state: lockReleased, want: model.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock := newFakeLock(0)
			lock.notOwned = tt.notOwned
			lock.isLockedErr = tt.isLockedErr
			scheduler := NewWeatherScheduler(newCountingUseCase(weather.OutcomeSkipped), config.ScheduleConfig{Cron: "@every 1h"}, lock)
			scheduler.setState(tt.state)

			health := scheduler.LockHealth()
			if health.Status != tt.want {
				t.Fatalf("LockHealth() = %+v, want %s", health, tt.want)
			}
			if health.Details["state"] != string(tt.state) {
				t.Fatalf("state detail = %q, want %q", health.Details["state"], tt.state)
			}
		})
	}
}

func TestSchedulerReleasesLockOnShutdown(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomeFailed)
	lock := newFakeLock(0)
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h", RunOnStart: true}, lock)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitStarted(t, useCase)

	if health := scheduler.LockHealth(); health.Status != model.StatusUp {
		t.Fatalf("LockHealth() while running = %+v", health)
	}

	cancel()
	scheduler.Wait()

	if !lock.Unlocked() {
		t.Fatalf("lock was not released on shutdown")
	}
	if health := scheduler.LockHealth(); health.Details["state"] != "RELEASED" {
		t.Fatalf("LockHealth() = %+v", health)
	}
	if lastRun := scheduler.LastRun(); lastRun == nil || lastRun.Outcome != "FAILED" {
		t.Fatalf("LastRun() = %+v", lastRun)
	}
}

func TestRunNowSkipsWhileCycleRuns(t *testing.T) {
	useCase := newCountingUseCase(weather.OutcomePublished)
	useCase.release = make(chan struct{})
	scheduler := NewWeatherScheduler(useCase, config.ScheduleConfig{Cron: "@every 1h"}, nil)

	type result struct {
		lastRun *model.LastRun
		ran     bool
	}
	first := make(chan result, 1)
	go func() {
		lastRun, ran := scheduler.RunNow()
		first <- result{lastRun: lastRun, ran: ran}
	}()
	waitStarted(t, useCase)

	if lastRun, ran := scheduler.RunNow(); ran || lastRun != nil {
		t.Fatalf("RunNow() during cycle = %+v, %v, want skipped", lastRun, ran)
	}

	close(useCase.release)
	got := <-first
	if !got.ran || got.lastRun == nil || got.lastRun.Outcome != "PUBLISHED" {
		t.Fatalf("RunNow() = %+v", got)
	}
	if useCase.Calls() != 1 {
		t.Fatalf("cycles = %d, want 1", useCase.Calls())
	}
}
