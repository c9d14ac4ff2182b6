package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	middleware "priority-tasks.com/priority-tasks/internal/http/middlewares"
	"priority-tasks.com/priority-tasks/internal/limiter"
)

func Register(e *echo.Echo, h *Handler, l limiter.Limiter, logger *log.Logger) {
	limit := middleware.RateLimiter(l, logger)

	e.GET("/", h.Index, limit)
	e.POST("/tasks", h.SubmitTask, limit)
	e.POST("/tasks/:id/toggle", h.ToggleTask, limit)

	e.GET("/api/tasks", h.ListTasks, limit)
	e.POST("/api/tasks", h.CreateTask, limit)
	e.POST("/api/tasks/:id/toggle", h.ToggleTaskAPI, limit)
	e.GET("/api/draft", h.GetDraft, limit)
	e.PUT("/api/draft", h.UpdateDraft, limit)

	e.GET("/healthz", h.Health)
}

// NewServer builds the echo instance serving the task list.
func NewServer(h *Handler, renderer echo.Renderer, l limiter.Limiter, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.JSONSerializer = SonicSerializer{}
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	Register(e, h, l, logger)
	return e
}
