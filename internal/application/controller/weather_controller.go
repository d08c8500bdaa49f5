package controller

import (
	"net/http"

	"weather-collector/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// CollectionTrigger runs a collection cycle on demand
type CollectionTrigger interface {
	RunNow() (*model.LastRun, bool)
}

type WeatherController struct {
	api     *echo.Group
	trigger CollectionTrigger
}

func NewWeatherController(api *echo.Group, trigger CollectionTrigger) *WeatherController {
	return &WeatherController{api: api, trigger: trigger}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.POST("/weather/collect", controller.Collect)
}

// Collect runs one fetch-then-publish cycle and reports its outcome
func (controller *WeatherController) Collect(c echo.Context) error {
	lastRun, ran := controller.trigger.RunNow()
	if !ran {
		return c.JSON(http.StatusConflict, map[string]string{"error": "A collection cycle is already running"})
	}
	return c.JSON(http.StatusOK, lastRun)
}
