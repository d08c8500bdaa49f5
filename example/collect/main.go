package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"weather-collector/internal/config"
	"weather-collector/internal/domain/gateway/api"
	"weather-collector/internal/domain/usecase/weather"
	"weather-collector/internal/infra/rabbitmq"
	"weather-collector/pkg/amqp"
	pkghttp "weather-collector/pkg/http"
	"weather-collector/pkg/resource"
)

// Runs a single fetch-then-publish cycle against the configured API and broker.
// Lower app.broker.retry.delay (RABBITMQ_RETRY_DELAY) to shorten the wait when no broker is running.
func main() {
	cfg, err := config.Load(resource.PathFromEnv())
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Collecting weather for %s (%.4f, %.4f) into queue %s\n",
		cfg.Weather.City, cfg.Weather.Latitude, cfg.Weather.Longitude, cfg.Broker.Queue)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gateway := api.NewWeatherGateway(cfg.Weather, pkghttp.ClientOptions{})
	fetcher := weather.NewWeatherFetcher(gateway, cfg.Weather.City, nil)

	record, ok := fetcher.Fetch(ctx)
	if !ok {
		fmt.Println("No record produced, nothing to publish")
		return
	}
	fmt.Printf("Record: %+v\n", record)

	sender := rabbitmq.NewSenderAdapter(amqp.NewSender(cfg.Broker.URL, nil))
	publisher := weather.NewQueuePublisher(sender, cfg.Broker.Queue, weather.RetryPolicy{
		MaxAttempts: cfg.Broker.MaxAttempts,
		Delay:       cfg.Broker.RetryDelay,
	})

	start := time.Now()
	if err := publisher.Publish(ctx, record); err != nil {
		fmt.Printf("Publish failed after %s: %v\n", time.Since(start), err)
		os.Exit(1)
	}
	fmt.Printf("Published in %s\n", time.Since(start))
}
