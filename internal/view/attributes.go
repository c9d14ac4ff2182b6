package view

import "priority-tasks.com/priority-tasks/internal/constants"

// Attributes are the cosmetic traits of a priority. They never feed back
// into stored data.
type Attributes struct {
	Color     string
	Icon      string
	IconLabel string
}

func PriorityAttributes(p constants.Priority) Attributes {
	switch p {
	case constants.PriorityHigh:
		return Attributes{Color: "text-red", Icon: "▲", IconLabel: "up"}
	case constants.PriorityMedium:
		return Attributes{Color: "text-yellow", Icon: "!", IconLabel: "caution"}
	case constants.PriorityLow:
		return Attributes{Color: "text-green", Icon: "▼", IconLabel: "down"}
	}
	return Attributes{Color: "text-gray", Icon: "?", IconLabel: "unknown"}
}
