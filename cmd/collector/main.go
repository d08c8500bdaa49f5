package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"weather-collector/internal/application/controller"
	"weather-collector/internal/application/middleware"
	"weather-collector/internal/application/schedule"
	"weather-collector/internal/config"
	"weather-collector/internal/domain/gateway/api"
	"weather-collector/internal/domain/gateway/queue"
	"weather-collector/internal/domain/usecase/health"
	"weather-collector/internal/domain/usecase/weather"
	"weather-collector/internal/infra/rabbitmq"
	"weather-collector/pkg/amqp"
	pkghttp "weather-collector/pkg/http"
	"weather-collector/pkg/log"
	"weather-collector/pkg/msg"
	"weather-collector/pkg/redis"
	"weather-collector/pkg/resource"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(resource.PathFromEnv())
	if err != nil {
		log.Fatal(msg.GetMessage("app.config-fail", err), zap.Error(err))
	}
	log.Configure(cfg.ApplicationName, cfg.LogLevel)
	defer log.Sync()

	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init infra
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupRequestLogger(e)
	apiGroup := e.Group(cfg.Server.ContextPath)

	sender := rabbitmq.NewSenderAdapter(amqp.NewSender(cfg.Broker.URL, nil))

	var lock schedule.Locker
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.NewRedisConfig().
			WithHost(cfg.Redis.Host).
			WithPort(cfg.Redis.Port).
			WithPassword(cfg.Redis.Password).
			WithDatabase(cfg.Redis.Database))
		if err != nil {
			log.Fatal(msg.GetMessage("app.config-fail", err), zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		lockOptions := redis.NewLockOptions()
		lockOptions.TTL = cfg.Redis.LockTTL
		lockOptions.RefreshInterval = cfg.Redis.LockRefreshInterval
		lockOptions.LockNamespace = cfg.Redis.LockNamespace
		lock = redis.NewLock(redisClient, cfg.Redis.LockKey, lockOptions)
	}

	// Init Gateway
	weatherGateway := api.NewWeatherGateway(cfg.Weather, pkghttp.ClientOptions{})
	queueHealthGateway := queue.NewQueueHealthGateway(sender, cfg.Broker.Queue)

	// Init UseCase
	fetcher := weather.NewWeatherFetcher(weatherGateway, cfg.Weather.City, nil)
	publisher := weather.NewQueuePublisher(sender, cfg.Broker.Queue, weather.RetryPolicy{
		MaxAttempts: cfg.Broker.MaxAttempts,
		Delay:       cfg.Broker.RetryDelay,
	})
	weatherUseCase := weather.NewWeatherUseCase(fetcher, publisher)

	// Init Schedule
	weatherScheduler := schedule.NewWeatherScheduler(weatherUseCase, cfg.Schedule, lock)
	healthUseCase := health.NewHealthUseCase(queueHealthGateway, weatherScheduler)

	// Init Routes
	controller.NewHealthController(apiGroup, healthUseCase).InitHealthRoutes()
	controller.NewWeatherController(apiGroup, weatherScheduler).InitWeatherRoutes()

	if err := weatherScheduler.Start(ctx); err != nil {
		log.Fatal(msg.GetMessage("app.config-fail", err), zap.Error(err))
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(msg.GetMessage("app.server-fail", err), zap.Error(err))
			stop()
		}
	}()
	log.Info(msg.GetMessage("app.started", cfg.Server.Port))

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(msg.GetMessage("app.server-fail", err), zap.Error(err))
	}

	weatherScheduler.Wait()
	log.Info(msg.GetMessage("app.stopped"))
}
