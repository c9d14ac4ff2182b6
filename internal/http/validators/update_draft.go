package validators

import (
	"priority-tasks.com/priority-tasks/internal/constants"
	dto "priority-tasks.com/priority-tasks/internal/data_models"
)

// ValidateUpdateDraftRequest returns "" for an omitted priority, leaving the
// draft priority unchanged.
func ValidateUpdateDraftRequest(r *dto.UpdateDraftRequest) (constants.Priority, error) {
	if r.Priority == "" {
		return "", nil
	}
	return constants.ParsePriority(r.Priority)
}
