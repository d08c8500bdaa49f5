package health

import "weather-collector/internal/domain/model"

type UseCase interface {
	CheckHealth() model.HealthResponse
}

// SchedulerState exposes what the scheduler knows about its lock and its last cycle
type SchedulerState interface {
	LockHealth() model.ComponentHealthStatus
	LastRun() *model.LastRun
}
