package view

import (
	"time"

	"priority-tasks.com/priority-tasks/internal/constants"
	model "priority-tasks.com/priority-tasks/internal/models"
)

const (
	Title            = "Priority Task Manager"
	EmptyPlaceholder = "No tasks yet. Add one to get started!"
)

type PriorityOption struct {
	Value    constants.Priority
	Label    string
	Selected bool
}

type Item struct {
	ID        string
	Text      string
	Completed bool
	Priority  constants.Priority
	Attributes
	Time string
}

type Page struct {
	Title       string
	Placeholder string
	Draft       model.Draft
	Priorities  []PriorityOption
	Items       []Item
	Empty       bool
}

// NewPage derives the page model of a view. Items follow the priority-sorted
// projection; the snapshot itself is not reordered.
func NewPage(snapshot model.Snapshot, clock Clock, loc *time.Location) Page {
	options := make([]PriorityOption, 0, len(constants.Priorities))
	for _, p := range constants.Priorities {
		options = append(options, PriorityOption{
			Value:    p,
			Label:    p.Label(),
			Selected: p == snapshot.Draft.Priority,
		})
	}

	sorted := model.SortByPriority(snapshot.Tasks)
	items := make([]Item, 0, len(sorted))
	for _, task := range sorted {
		items = append(items, Item{
			ID:         task.ID,
			Text:       task.Text,
			Completed:  task.Completed,
			Priority:   task.Priority,
			Attributes: PriorityAttributes(task.Priority),
			Time:       FormatTime(task.CreatedAt, clock, loc),
		})
	}

	return Page{
		Title:       Title,
		Placeholder: EmptyPlaceholder,
		Draft:       snapshot.Draft,
		Priorities:  options,
		Items:       items,
		Empty:       len(snapshot.Tasks) == 0,
	}
}
