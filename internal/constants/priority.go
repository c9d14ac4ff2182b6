package constants

import (
	"strings"

	apperrors "priority-tasks.com/priority-tasks/internal/errors"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is preselected in the entry form of a new view.
const DefaultPriority = PriorityMedium

// Priorities lists the selectable variants in the order the form offers them.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for display, higher first. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

func (p Priority) String() string {
	return string(p)
}

// Label is the human readable name shown in the selector.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", apperrors.ErrInvalidPriority
	}
	return p, nil
}
