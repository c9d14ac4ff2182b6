package dto

import model "priority-tasks.com/priority-tasks/internal/models"

type SubmitTaskRequest struct {
	Text     string `json:"text" form:"text"`
	Priority string `json:"priority" form:"priority"`
}

// UpdateDraftRequest edits the entry form of a view. Omitted fields keep
// their current value.
type UpdateDraftRequest struct {
	Text     *string `json:"text"`
	Priority string  `json:"priority"`
}

type TaskListResponse struct {
	Count int          `json:"count"`
	Tasks []model.Task `json:"tasks"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Views  int    `json:"views"`
	Tasks  int    `json:"tasks"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
