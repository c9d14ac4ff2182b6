package validators

import (
	"priority-tasks.com/priority-tasks/internal/constants"
	dto "priority-tasks.com/priority-tasks/internal/data_models"
)

// ValidateSubmitTaskRequest checks the priority of a submission. Blank text
// is not an error: the store declines it silently. An omitted priority
// yields "" so the caller can fall back to the view's draft priority.
func ValidateSubmitTaskRequest(r *dto.SubmitTaskRequest) (constants.Priority, error) {
	if r.Priority == "" {
		return "", nil
	}
	return constants.ParsePriority(r.Priority)
}
