package model_test

import (
	"testing"
	"time"

	"studycal/internal/model"
)

func TestEventHour(t *testing.T) {
	tests := []struct {
		name   string
		ev     model.Event
		want   int
		wantOK bool
	}{
		{name: "Morning", ev: model.Event{Time: "09:00"}, want: 9, wantOK: true},
		{name: "Midnight", ev: model.Event{Time: "00:30"}, want: 0, wantOK: true},
		{name: "Late", ev: model.Event{Time: "23:59"}, want: 23, wantOK: true},
		{name: "All day sentinel", ev: model.Event{Time: model.AllDayTime}},
		{name: "All day flag", ev: model.Event{Time: "09:00", AllDay: true}},
		{name: "Garbage", ev: model.Event{Time: "soon"}},
		{name: "Out of range", ev: model.Event{Time: "25:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ev.Hour()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Hour() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEventStart(t *testing.T) {
	ev := model.Event{ID: "1", Date: "2024-10-10", Time: "09:30"}
	got, err := ev.Start(time.UTC)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	want := time.Date(2024, 10, 10, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Start() = %v, want %v", got, want)
	}

	ev.Time = model.AllDayTime
	got, err = ev.Start(time.UTC)
	if err != nil {
		t.Fatalf("Start() all-day error = %v", err)
	}
	if !got.Equal(time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("all-day Start() = %v", got)
	}

	ev.Date = "10/10/2024"
	if _, err := ev.Start(time.UTC); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseRepeatRule(t *testing.T) {
	tests := map[string]model.RepeatRule{
		"":                model.RepeatNone,
		"Does Not Repeat": model.RepeatNone,
		"Daily":           model.RepeatDaily,
		"weekly":          model.RepeatWeekly,
	}
	for in, want := range tests {
		got, err := model.ParseRepeatRule(in)
		if err != nil || got != want {
			t.Errorf("ParseRepeatRule(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := model.ParseRepeatRule("monthly"); err == nil {
		t.Error("expected error for monthly")
	}
}

func TestParseViewMode(t *testing.T) {
	for _, s := range []string{"month", "Week", " day "} {
		if _, err := model.ParseViewMode(s); err != nil {
			t.Errorf("ParseViewMode(%q) error = %v", s, err)
		}
	}
	if _, err := model.ParseViewMode("year"); err == nil {
		t.Error("expected error for year")
	}
}
