package view

import (
	"studycal/internal/grid"
	"studycal/internal/model"
)

// Title is the header label for the state, e.g. "October 2024",
// "Oct 6 - Oct 12, 2024" or "Thursday, October 10, 2024".
func (s State) Title() string {
	switch s.Mode {
	case model.ViewWeek:
		start := grid.WeekStartOf(s.Reference, s.WeekStart)
		end := start.AddDate(0, 0, grid.DaysPerWeek-1)
		if start.Year() != end.Year() {
			return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
		}
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	case model.ViewDay:
		return s.Reference.Format("Monday, January 2, 2006")
	}
	return s.Reference.Format("January 2006")
}
