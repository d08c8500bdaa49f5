package weather

import (
	"context"

	"weather-collector/pkg/log"
	"weather-collector/pkg/msg"
)

type weatherUseCase struct {
	fetcher   Fetcher
	publisher Publisher
}

func NewWeatherUseCase(fetcher Fetcher, publisher Publisher) UseCase {
	return &weatherUseCase{
		fetcher:   fetcher,
		publisher: publisher,
	}
}

// Run fetches the current weather and, when a record was produced, publishes it once
func (uc *weatherUseCase) Run(ctx context.Context) Outcome {
	log.Info(msg.GetMessage("weather.job.start"))

	record, ok := uc.fetcher.Fetch(ctx)
	if !ok {
		log.Info(msg.GetMessage("weather.job.skipped"))
		return OutcomeSkipped
	}

	if err := uc.publisher.Publish(ctx, record); err != nil {
		return OutcomeFailed
	}

	log.Info(msg.GetMessage("weather.job.end"))
	return OutcomePublished
}
