package queue

import "weather-collector/internal/domain/model"

type HealthGateway interface {
	Health() model.ComponentHealthStatus
}
