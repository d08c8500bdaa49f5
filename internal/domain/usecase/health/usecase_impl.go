package health

import (
	"weather-collector/internal/domain/gateway/queue"
	"weather-collector/internal/domain/model"
)

type healthUseCase struct {
	queueGateway queue.HealthGateway
	scheduler    SchedulerState
}

func NewHealthUseCase(queueGateway queue.HealthGateway, scheduler SchedulerState) UseCase {
	return &healthUseCase{
		queueGateway: queueGateway,
		scheduler:    scheduler,
	}
}

// CheckHealth reports DOWN when the broker is unreachable or the scheduler lost its lock.
// A lock in UNKNOWN state (disabled or not yet acquired) does not affect the overall status.
func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	brokerHealth := useCase.queueGateway.Health()
	lockHealth := useCase.scheduler.LockHealth()

	overallStatus := model.StatusUp
	if brokerHealth.Status != model.StatusUp || lockHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:  overallStatus,
		Broker:  brokerHealth,
		Lock:    lockHealth,
		LastRun: useCase.scheduler.LastRun(),
	}
}
