package payload

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studycal/internal/model"
)

// ScheduleOptions control how sessions become calendar events.
type ScheduleOptions struct {
	// Time is the "HH:MM" start of each session; empty makes them all-day.
	Time   string
	Color  string
	Course string
	// IDPrefix keys the generated events; scheduling the same plan again with
	// the same prefix updates the events instead of duplicating them. A random
	// prefix is used when empty.
	IDPrefix string
}

// Sessions returns the daily sessions of a parsed payload.
func Sessions(p Payload) []Session {
	switch v := p.(type) {
	case StudyPlan:
		return v.StudyPlan.DailySessions
	case InterviewPrep:
		return v.DailySchedule
	}
	return nil
}

// ScheduleEvents places session N on start + N-1 days.
func ScheduleEvents(sessions []Session, start time.Time, opts ScheduleOptions) []model.Event {
	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = uuid.NewString()
	}
	allDay := opts.Time == ""
	t := opts.Time
	if allDay {
		t = model.AllDayTime
	}

	out := make([]model.Event, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, model.Event{
			ID:          fmt.Sprintf("%s-day-%d", prefix, s.Day),
			Title:       fmt.Sprintf("Day %d: %s", s.Day, strings.Join(s.Topics, ", ")),
			Date:        model.FormatDate(start.AddDate(0, 0, s.Day-1)),
			Time:        t,
			Description: describe(s),
			Color:       opts.Color,
			AllDay:      allDay,
			Course:      opts.Course,
			Repeat:      model.RepeatNone,
		})
	}
	return out
}

func describe(s Session) string {
	var lines []string
	if s.Duration != "" {
		lines = append(lines, "Duration: "+s.Duration)
	}
	for _, task := range s.Tasks {
		lines = append(lines, "- "+task)
	}
	if s.Quiz != nil && len(s.Quiz.Questions) > 0 {
		lines = append(lines, fmt.Sprintf("Quiz: %d questions", len(s.Quiz.Questions)))
	}
	return strings.Join(lines, "\n")
}
