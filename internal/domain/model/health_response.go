package model

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ComponentHealthStatus represents the health check structure of a application component
type ComponentHealthStatus struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// LastRun describes the most recent collection cycle
type LastRun struct {
	RequestID  string `json:"requestId"`
	Outcome    string `json:"outcome"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
}

// HealthResponse represents the health check response of all application
type HealthResponse struct {
	Status  HealthStatus          `json:"status"`
	Broker  ComponentHealthStatus `json:"broker"`
	Lock    ComponentHealthStatus `json:"lock"`
	LastRun *LastRun              `json:"lastRun"`
}
