package http

import (
	"weather-collector/pkg/log"

	"go.uber.org/zap"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent
	LogRequest(method, url string)

	// LogResponseSuccess is called after receiving a 2xx response
	LogResponseSuccess(method, url string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called after a transport failure or a non-2xx response
	LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error)
}

type zapLogger struct{}

// NewZapLogger returns an HTTPLogger writing debug lines through pkg/log.
func NewZapLogger() HTTPLogger {
	return zapLogger{}
}

func (zapLogger) LogRequest(method, url string) {
	log.Debug("http request", zap.String("method", method), zap.String("url", url))
}

func (zapLogger) LogResponseSuccess(method, url string, httpStatus int, responseBody string, latency int64) {
	log.Debug("http response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int("body_size", len(responseBody)),
		zap.Int64("latency_ms", latency))
}

func (zapLogger) LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error) {
	log.Debug("http response error",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.String("body", truncate(responseBody, 512)),
		zap.Int64("latency_ms", latency),
		zap.Error(err))
}

func truncate(value string, size int) string {
	if len(value) <= size {
		return value
	}
	return value[:size]
}
