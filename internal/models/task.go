package models

import (
	"sort"
	"strings"
	"time"

	"priority-tasks.com/priority-tasks/internal/constants"
)

type Task struct {
	ID        string             `json:"id"`
	Text      string             `json:"text"`
	Completed bool               `json:"completed"`
	Priority  constants.Priority `json:"priority"`
	CreatedAt time.Time          `json:"created_at"`
}

// Draft is the pending input of the entry form.
type Draft struct {
	Text     string             `json:"text"`
	Priority constants.Priority `json:"priority"`
}

func NewDraft() Draft {
	return Draft{Priority: constants.DefaultPriority}
}

// Snapshot is a detached copy of a view's state.
type Snapshot struct {
	Tasks []Task `json:"tasks"`
	Draft Draft  `json:"draft"`
}

// IsBlank reports whether text would be rejected by submit.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// SortByPriority returns tasks ordered high to low. Tasks of equal priority
// keep their relative order; the input slice is left untouched.
func SortByPriority(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() > sorted[j].Priority.Rank()
	})
	return sorted
}
