package weather

import (
	"context"

	"weather-collector/internal/domain/entity"
)

// Outcome describes what a collection cycle did
type Outcome string

const (
	OutcomePublished Outcome = "PUBLISHED"
	OutcomeSkipped   Outcome = "SKIPPED"
	OutcomeFailed    Outcome = "FAILED"
)

type Fetcher interface {
	// Fetch calls the weather API once and assembles a record.
	// The second return value is false when no record could be produced.
	Fetch(ctx context.Context) (entity.WeatherRecord, bool)
}

type Publisher interface {
	// Publish delivers the record to the durable queue, retrying per its policy
	Publish(ctx context.Context, record entity.WeatherRecord) error
}

type UseCase interface {
	// Run executes one fetch-then-publish cycle. Failures are logged and absorbed.
	Run(ctx context.Context) Outcome
}
