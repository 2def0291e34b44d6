package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "studycal/internal/log"
	"studycal/internal/model"
	"studycal/internal/palette"
)

// ErrEmpty is returned for an empty ICS body.
var ErrEmpty = errors.New("ics: empty body")

// ParseICS converts the VEVENTs of an ICS payload into calendar events.
//
//   - DTSTART is converted into loc; floating times are read as loc wall time.
//   - DATE values and the absence of a time part mark the event all-day.
//   - RRULE frequencies DAILY and WEEKLY map onto repeat rules, anything else
//     is imported as a one-off event. Occurrences are never expanded.
//   - When src.ID is set, event IDs are "src.ID:UID" so feeds cannot collide
//     with locally created events.
//
// Events without UID, SUMMARY or DTSTART are logged and skipped.
func ParseICS(src Source, body []byte, loc *time.Location) ([]model.Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmpty
	}
	if loc == nil {
		loc = time.UTC
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, fmt.Errorf("ics: parse: %w", err)
	}

	events := make([]model.Event, 0)
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(src, comp, loc)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "url", redactURL(src.URL), "reason", perr.Error())
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "event_count", len(events))
	return events, nil
}

func parseVEvent(src Source, ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	var out model.Event

	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return out, errors.New("missing UID")
	}
	out.ID = uid
	if src.ID != "" {
		out.ID = src.ID + ":" + uid
	}

	out.Title = strings.TrimSpace(propValue(ve, ical.ComponentPropertySummary))
	if out.Title == "" {
		return out, errors.New("missing SUMMARY")
	}
	out.Description = propValue(ve, ical.ComponentPropertyDescription)
	out.Location = propValue(ve, ical.ComponentPropertyLocation)

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || strings.TrimSpace(dtStart.Value) == "" {
		return out, errors.New("missing DTSTART")
	}
	start, allDay, err := parseDtStart(dtStart, loc)
	if err != nil {
		return out, err
	}
	out.Date = model.FormatDate(start)
	out.AllDay = allDay
	if allDay {
		out.Time = model.AllDayTime
	} else {
		out.Time = start.Format(model.TimeLayout)
	}

	out.Color, _ = palette.Normalize(src.Color)
	if out.Color == "" {
		out.Color = eventColor(ve)
	}
	if out.Color == "" {
		out.Color = src.DefaultColor
	}

	if cats := propValue(ve, ical.ComponentPropertyCategories); cats != "" {
		first, _, _ := strings.Cut(cats, ",")
		out.Course = strings.TrimSpace(first)
	}
	if src.Course != "" {
		out.Course = src.Course
	}

	out.Repeat = model.RepeatNone
	if raw := propValue(ve, ical.ComponentPropertyRrule); raw != "" {
		out.Repeat = repeatFromRRule(raw)
	}

	return out, nil
}

// eventColor prefers the exact hex property over COLOR, which may hold a CSS
// name or, from some producers, a hex value. Unknown values are dropped.
func eventColor(ve *ical.VEvent) string {
	for _, p := range []string{propHexColor, propColor} {
		if c, ok := palette.Normalize(propValue(ve, ical.ComponentProperty(p))); ok {
			return c
		}
	}
	return ""
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

// parseDtStart honours VALUE=DATE and TZID parameters.
func parseDtStart(p *ical.IANAProperty, loc *time.Location) (time.Time, bool, error) {
	val := strings.TrimSpace(p.Value)

	allDay := !strings.Contains(val, "T")
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		allDay = true
	}

	srcLoc := loc
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		tz, err := time.LoadLocation(tzs[0])
		if err != nil {
			appLog.Debug("ics unknown TZID, using local zone", "tzid", tzs[0])
		} else {
			srcLoc = tz
		}
	}

	t, err := parseICSTime(val, srcLoc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("bad DTSTART %q: %w", val, err)
	}
	if allDay {
		return t, true, nil
	}
	return t.In(loc), false, nil
}

// parseICSTime parses the basic DATE, local DATE-TIME and UTC DATE-TIME forms.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse(icsUTCLayout, v)
	}

	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		return time.ParseInLocation(icsLocalLayout, v, loc)
	}

	// Date-only (all-day), e.g., 20250101
	return time.ParseInLocation(icsDateLayout, v, loc)
}

func repeatFromRRule(raw string) model.RepeatRule {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		appLog.Debug("ics RRULE ignored", "rrule", raw, "reason", err.Error())
		return model.RepeatNone
	}
	switch opt.Freq {
	case rrule.DAILY:
		return model.RepeatDaily
	case rrule.WEEKLY:
		return model.RepeatWeekly
	}
	return model.RepeatNone
}
