package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical calendar-day format for Event.Date.
	DateLayout = "2006-01-02"
	// TimeLayout is the clock-time format for Event.Time.
	TimeLayout = "15:04"
	// AllDayTime is stored in Event.Time for all-day events.
	AllDayTime = "All Day"
)

// RepeatRule labels how an event repeats. Rules are stored and exported but
// never expanded into extra occurrences.
type RepeatRule string

const (
	RepeatNone   RepeatRule = "none"
	RepeatDaily  RepeatRule = "daily"
	RepeatWeekly RepeatRule = "weekly"
)

// ParseRepeatRule accepts the canonical values plus the labels shown in the
// event dialog ("Does Not Repeat", "Daily", "Weekly"). Empty means none.
func ParseRepeatRule(s string) (RepeatRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "does not repeat":
		return RepeatNone, nil
	case "daily":
		return RepeatDaily, nil
	case "weekly":
		return RepeatWeekly, nil
	}
	return "", fmt.Errorf("model: unknown repeat rule %q", s)
}

// Event is a single calendar entry.
type Event struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Date        string     `json:"date" yaml:"date"`
	Time        string     `json:"time" yaml:"time"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string     `json:"color" yaml:"color"`
	AllDay      bool       `json:"allDay" yaml:"all_day"`
	Location    string     `json:"location,omitempty" yaml:"location,omitempty"`
	Course      string     `json:"course,omitempty" yaml:"course,omitempty"`
	Repeat      RepeatRule `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// IsAllDay reports whether time-of-day should be ignored for this event.
func (e Event) IsAllDay() bool {
	return e.AllDay || e.Time == AllDayTime
}

// Day parses Date as a calendar day in loc (time.UTC if nil).
func (e Event) Day(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// Hour returns the hour component of Time. ok is false for all-day events and
// for time strings without a leading integer hour.
func (e Event) Hour() (hour int, ok bool) {
	if e.IsAllDay() {
		return 0, false
	}
	head, _, _ := strings.Cut(e.Time, ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// Start combines Date and Time into a wall-clock instant in loc. All-day
// events start at midnight.
func (e Event) Start(loc *time.Location) (time.Time, error) {
	day, err := e.Day(loc)
	if err != nil {
		return time.Time{}, err
	}
	if e.IsAllDay() {
		return day, nil
	}
	clock, err := time.Parse(TimeLayout, e.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: event %s: bad time %q: %w", e.ID, e.Time, err)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// FormatDate renders t as an Event.Date value.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatHour renders an hour slot as an Event.Time value, e.g. "09:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
