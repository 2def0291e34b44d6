// Package ics converts calendar events to and from iCalendar and keeps
// subscribed ICS feeds in sync with the event store.
package ics

import (
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "studycal/internal/log"
	"studycal/internal/model"
	"studycal/internal/palette"
)

const (
	icsUTCLayout   = "20060102T150405Z"
	icsLocalLayout = "20060102T150405"
	icsDateLayout  = "20060102"

	// propColor carries an RFC 7986 CSS color name. The exact #RRGGBB value
	// travels in propHexColor.
	propColor    = "COLOR"
	propHexColor = "X-STUDYCAL-COLOR"
	prodID    = "-//studycal//calendar export//EN"

	// defaultDuration is used for DTEND since events carry only a start.
	defaultDuration = time.Hour
)

// Export renders events as a VCALENDAR document. Timed events get a floating
// DTSTART so they keep their wall-clock time in every client; all-day events
// span exactly one DATE. Events with unparsable dates are skipped.
func Export(events []model.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})

	stamp := time.Now().UTC()
	for _, ev := range sorted {
		start, err := ev.Start(time.UTC)
		if err != nil {
			appLog.Warn("ics export skipped event", "event_id", ev.ID, "reason", err.Error())
			continue
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}

		if ev.IsAllDay() {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		} else {
			ve.SetProperty(ical.ComponentPropertyDtStart, start.Format(icsLocalLayout))
			ve.SetProperty(ical.ComponentPropertyDtEnd, start.Add(defaultDuration).Format(icsLocalLayout))
		}

		if palette.Valid(ev.Color) {
			name, _ := palette.Name(ev.Color)
			ve.SetProperty(ical.ComponentProperty(propColor), name)
			ve.SetProperty(ical.ComponentProperty(propHexColor), strings.ToUpper(ev.Color))
		}
		if ev.Course != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, ev.Course)
		}
		if rule := rruleFor(ev.Repeat); rule != "" {
			ve.SetProperty(ical.ComponentPropertyRrule, rule)
		}
	}

	return cal.Serialize()
}

func rruleFor(r model.RepeatRule) string {
	var opt rrule.ROption
	switch r {
	case model.RepeatDaily:
		opt.Freq = rrule.DAILY
	case model.RepeatWeekly:
		opt.Freq = rrule.WEEKLY
	default:
		return ""
	}
	return opt.RRuleString()
}
