package router

import (
	"fmt"
	"net/http"

	"sportreminder/internal/interfaces/api/handler"
	"sportreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	ReminderHandler *handler.ReminderHandler
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestID())
	// Use custom logger that integrates with our logger interface
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       300,
	}))

	// Routes
	health := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.GET("/", health)
	e.GET("/healthz", health)

	h := cfg.ReminderHandler
	api := e.Group("/api")
	api.GET("/categories", h.ListCategories)
	api.GET("/boards", h.GetBoards)
	api.POST("/reminders", h.AddReminder)
	api.POST("/reminders/:id/snooze", h.Snooze)
	api.POST("/reminders/:id/done", h.MarkDone)
	api.DELETE("/reminders/:id", h.Delete)
	api.POST("/alerts/poll", h.PollAlerts)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
