package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	dto "priority-tasks.com/priority-tasks/internal/data_models"
	apperrors "priority-tasks.com/priority-tasks/internal/errors"
	"priority-tasks.com/priority-tasks/internal/http/validators"
	model "priority-tasks.com/priority-tasks/internal/models"
	"priority-tasks.com/priority-tasks/internal/services"
	"priority-tasks.com/priority-tasks/internal/view"
)

type Handler struct {
	views    *services.ViewRegistry
	location *time.Location
	logger   *log.Logger
}

func NewHandler(views *services.ViewRegistry, location *time.Location, logger *log.Logger) *Handler {
	return &Handler{
		views:    views,
		location: location,
		logger:   logger,
	}
}

// Index renders the entry form and the priority-sorted task list.
func (h *Handler) Index(c echo.Context) error {
	store := h.openView(c)

	snapshot, err := store.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}

	clock := view.ClockFor(c.Request().Header.Get("Accept-Language"))
	return c.Render(http.StatusOK, view.PageTemplate, view.NewPage(snapshot, clock, h.location))
}

// SubmitTask handles the entry form and redirects back to the list.
func (h *Handler) SubmitTask(c echo.Context) error {
	if _, err := h.submit(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// ToggleTask handles the per-task toggle control and redirects back to the list.
func (h *Handler) ToggleTask(c echo.Context) error {
	if _, err := h.toggle(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) ListTasks(c echo.Context) error {
	store := h.openView(c)

	tasks, err := store.Sorted(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TaskListResponse{
		Count: len(tasks),
		Tasks: tasks,
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	task, err := h.submit(c)
	if err != nil {
		return err
	}
	if task == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ToggleTaskAPI(c echo.Context) error {
	task, err := h.toggle(c)
	if err != nil {
		return err
	}
	if task == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) GetDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, h.openView(c).Draft())
}

// UpdateDraft edits the pending form input of the view without touching its
// tasks, so the next page render shows the edited text and priority.
func (h *Handler) UpdateDraft(c echo.Context) error {
	var req dto.UpdateDraftRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidPayload
	}
	priority, err := validators.ValidateUpdateDraftRequest(&req)
	if err != nil {
		return err
	}

	store := h.openView(c)
	if req.Text != nil {
		store.SetDraftText(*req.Text)
	}
	if priority != "" {
		store.SetDraftPriority(priority)
	}

	return c.JSON(http.StatusOK, store.Draft())
}

func (h *Handler) Health(c echo.Context) error {
	tasks, err := h.views.TaskCount(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Views:  h.views.Len(),
		Tasks:  tasks,
	})
}

func (h *Handler) submit(c echo.Context) (*model.Task, error) {
	var req dto.SubmitTaskRequest
	if err := c.Bind(&req); err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	priority, err := validators.ValidateSubmitTaskRequest(&req)
	if err != nil {
		return nil, err
	}

	store := h.openView(c)
	if priority == "" {
		priority = store.Draft().Priority
	}

	task, added, err := store.Submit(c.Request().Context(), req.Text, priority)
	if err != nil {
		return nil, err
	}
	if !added {
		h.logger.WithField("view_id", viewID(c)).Debug("blank task declined")
		return nil, nil
	}

	h.logger.WithFields(log.Fields{
		"view_id":  viewID(c),
		"task_id":  task.ID,
		"priority": task.Priority,
	}).Info("task added")
	return task, nil
}

func (h *Handler) toggle(c echo.Context) (*model.Task, error) {
	id := c.Param("id")
	if id == "" {
		return nil, apperrors.ErrTaskIDRequired
	}

	store := h.openView(c)
	task, found, err := store.Toggle(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if !found {
		h.logger.WithFields(log.Fields{"view_id": viewID(c), "task_id": id}).Debug("toggle of unknown task ignored")
		return nil, nil
	}

	h.logger.WithFields(log.Fields{
		"view_id":   viewID(c),
		"task_id":   task.ID,
		"completed": task.Completed,
	}).Info("task toggled")
	return task, nil
}
