// Package grid computes the day cells and hour rows shown by the month, week
// and day calendar views. Everything here is pure calendar arithmetic.
package grid

import (
	"time"

	"studycal/internal/model"
)

const (
	// MonthCells is the size of a five-row month grid.
	MonthCells = 35
	// MaxMonthCells is used when a month spills into a sixth row.
	MaxMonthCells = 42
	DaysPerWeek   = 7
	HoursPerDay   = 24
	// NoHour marks month-view slots, which have no hour component.
	NoHour = -1
)

// DayCell is one rendered day.
type DayCell struct {
	Day            int       `json:"day"`
	Date           time.Time `json:"date"`
	InCurrentMonth bool      `json:"inCurrentMonth"`
}

// Slot is a clickable grid position: a day, optionally narrowed to an hour.
type Slot struct {
	Date time.Time
	Hour int
}

// Grid is the render plan for one view.
type Grid struct {
	Mode model.ViewMode
	// Ref is the reference date truncated to midnight.
	Ref time.Time
	// Days are the day cells (month: 35 or 42, week: 7, day: 1).
	Days []DayCell
	// Hours are the hour rows; nil in month mode.
	Hours []int
}

// Slots flattens the grid row by row. Month slots carry NoHour; week slots
// are ordered hour-major like the rendered table.
func (g Grid) Slots() []Slot {
	if len(g.Hours) == 0 {
		out := make([]Slot, 0, len(g.Days))
		for _, d := range g.Days {
			out = append(out, Slot{Date: d.Date, Hour: NoHour})
		}
		return out
	}
	out := make([]Slot, 0, len(g.Days)*len(g.Hours))
	for _, h := range g.Hours {
		for _, d := range g.Days {
			out = append(out, Slot{Date: d.Date, Hour: h})
		}
	}
	return out
}

// Build produces the grid for ref in the given mode. Unknown modes fall back
// to month.
func Build(ref time.Time, mode model.ViewMode, weekStart time.Weekday) Grid {
	ref = Midnight(ref)
	g := Grid{Mode: mode, Ref: ref}
	switch mode {
	case model.ViewWeek:
		g.Days = Week(ref, weekStart)
		g.Hours = hours()
	case model.ViewDay:
		g.Days = []DayCell{cell(ref, ref.Year(), ref.Month())}
		g.Hours = hours()
	default:
		g.Mode = model.ViewMonth
		g.Days = Month(ref, weekStart)
	}
	return g
}

// Month returns the month grid for ref's month. The first cell is the
// week-start day on or before the 1st; the grid holds MonthCells cells unless
// the month needs a sixth row.
func Month(ref time.Time, weekStart time.Weekday) []DayCell {
	year, month, _ := ref.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	lead := offset(first.Weekday(), weekStart)
	n := MonthCells
	if lead+DaysInMonth(year, month) > MonthCells {
		n = MaxMonthCells
	}

	start := first.AddDate(0, 0, -lead)
	out := make([]DayCell, n)
	for i := range out {
		out[i] = cell(start.AddDate(0, 0, i), year, month)
	}
	return out
}

// Week returns the seven days of the week containing ref.
func Week(ref time.Time, weekStart time.Weekday) []DayCell {
	start := WeekStartOf(ref, weekStart)
	year, month, _ := ref.Date()
	out := make([]DayCell, DaysPerWeek)
	for i := range out {
		out[i] = cell(start.AddDate(0, 0, i), year, month)
	}
	return out
}

// WeekStartOf returns midnight of the week-start day on or before t.
func WeekStartOf(t time.Time, weekStart time.Weekday) time.Time {
	t = Midnight(t)
	return t.AddDate(0, 0, -offset(t.Weekday(), weekStart))
}

// DaysInMonth uses day 0 of the following month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func offset(day, weekStart time.Weekday) int {
	return (int(day) - int(weekStart) + DaysPerWeek) % DaysPerWeek
}

func cell(d time.Time, year int, month time.Month) DayCell {
	return DayCell{
		Day:            d.Day(),
		Date:           d,
		InCurrentMonth: d.Year() == year && d.Month() == month,
	}
}

func hours() []int {
	out := make([]int, HoursPerDay)
	for h := range out {
		out[h] = h
	}
	return out
}
