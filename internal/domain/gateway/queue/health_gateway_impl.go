package queue

import (
	"time"

	"weather-collector/internal/domain/model"
)

// Pinger checks the broker is reachable
type Pinger interface {
	Ping() error
}

type QueueHealthGateway struct {
	pinger    Pinger
	queueName string
}

func NewQueueHealthGateway(pinger Pinger, queueName string) *QueueHealthGateway {
	return &QueueHealthGateway{
		pinger:    pinger,
		queueName: queueName,
	}
}

func (gateway *QueueHealthGateway) Health() model.ComponentHealthStatus {
	start := time.Now()
	err := gateway.pinger.Ping()
	latency := time.Since(start)

	if err != nil {
		return model.ComponentHealthStatus{
			Status: model.StatusDown,
			Details: map[string]string{
				"queue": gateway.queueName,
				"error": err.Error(),
			},
		}
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"queue":   gateway.queueName,
			"latency": latency.String(),
		},
	}
}
