package payload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studycal/internal/model"
	"studycal/internal/payload"
)

const studyPlanJSON = "```json\n" + `{
  "summary": "Thermodynamics basics",
  "studyPlan": {
    "dailySessions": [
      {"day": 1, "topics": ["Heat", "Work"], "tasks": ["Read ch. 1"], "duration": "2 hours",
       "resources": [{"topic": "Heat", "website": "https://example.org/heat", "description": "notes"}],
       "quiz": {"questions": [{"question": "What is heat?", "answer": "Energy in transit"}]}},
      {"day": 3, "topics": ["Entropy"], "duration": "1 hour"}
    ],
    "finalExamPreparation": {"revision": ["All chapters"], "mockExam": "Sunday"}
  },
  "questions": [
    {"type": "multiple choice", "question": "Unit of energy?", "options": ["Joule", "Watt"], "answer": "Joule"},
    {"type": "short answer", "question": "Define entropy."}
  ]
}` + "\n```"

const interviewJSON = `{
  "summary": "Backend role",
  "dailySchedule": [{"day": 1, "topics": ["Go concurrency"], "tasks": ["Solve 2 problems"], "duration": "3 hours"}],
  "keyTopics": ["Channels"],
  "sampleQuestions": [{"question": "What is a goroutine?", "answer": "A lightweight thread"}],
  "codingChallenges": [{"title": "LRU cache", "difficulty": "Medium"}],
  "behavioralTips": ["Use STAR"],
  "resources": [{"title": "Tour of Go", "url": "https://go.dev/tour"}]
}`

func TestParseStudyPlan(t *testing.T) {
	p, err := payload.Parse(payload.KindStudyPlan, []byte(studyPlanJSON))
	require.NoError(t, err)

	plan, ok := p.(payload.StudyPlan)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, payload.KindStudyPlan, plan.Kind())
	assert.Equal(t, "Thermodynamics basics", plan.Summary)
	require.Len(t, plan.StudyPlan.DailySessions, 2)
	assert.Equal(t, []string{"Heat", "Work"}, plan.StudyPlan.DailySessions[0].Topics)
	require.NotNil(t, plan.StudyPlan.FinalExamPreparation)
	assert.Equal(t, "Sunday", plan.StudyPlan.FinalExamPreparation.MockExam)
	assert.Len(t, plan.Questions, 2)
}

func TestParseInterviewPrep(t *testing.T) {
	p, err := payload.ParseAny([]byte(interviewJSON))
	require.NoError(t, err)

	prep, ok := p.(payload.InterviewPrep)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, payload.KindInterviewPrep, prep.Kind())
	assert.Equal(t, "Medium", prep.CodingChallenges[0].Difficulty)
	assert.Len(t, payload.Sessions(prep), 1)
}

func TestDetect(t *testing.T) {
	kind, err := payload.Detect([]byte(studyPlanJSON))
	require.NoError(t, err)
	assert.Equal(t, payload.KindStudyPlan, kind)

	kind, err = payload.Detect([]byte(interviewJSON))
	require.NoError(t, err)
	assert.Equal(t, payload.KindInterviewPrep, kind)

	_, err = payload.Detect([]byte(`{"hello": "world"}`))
	assert.ErrorIs(t, err, payload.ErrMalformed)
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		kind  payload.Kind
		raw   string
		field string
	}{
		{name: "Empty", kind: payload.KindStudyPlan, raw: "```json\n```"},
		{name: "Not JSON", kind: payload.KindStudyPlan, raw: "Sure! Here is your plan."},
		{name: "Trailing data", kind: payload.KindInterviewPrep, raw: interviewJSON + ` {}`},
		{
			name:  "Wrong type",
			kind:  payload.KindStudyPlan,
			raw:   `{"summary": "x", "studyPlan": {"dailySessions": [{"day": "one", "topics": ["a"]}]}}`,
			field: "studyPlan.dailySessions.day",
		},
		{
			name:  "Missing sessions",
			kind:  payload.KindStudyPlan,
			raw:   `{"summary": "x", "studyPlan": {"dailySessions": []}}`,
			field: "studyPlan.dailySessions",
		},
		{
			name:  "Day zero",
			kind:  payload.KindInterviewPrep,
			raw:   `{"summary": "x", "dailySchedule": [{"day": 0, "topics": ["a"]}]}`,
			field: "dailySchedule[0].day",
		},
		{
			name:  "No topics",
			kind:  payload.KindInterviewPrep,
			raw:   `{"summary": "x", "dailySchedule": [{"day": 1, "topics": []}]}`,
			field: "dailySchedule[0].topics",
		},
		{
			name:  "Blank summary",
			kind:  payload.KindInterviewPrep,
			raw:   `{"summary": "  ", "dailySchedule": [{"day": 1, "topics": ["a"]}]}`,
			field: "summary",
		},
		{
			name:  "Bad difficulty",
			kind:  payload.KindInterviewPrep,
			raw:   `{"summary": "x", "dailySchedule": [{"day": 1, "topics": ["a"]}], "codingChallenges": [{"title": "t", "difficulty": "Impossible"}]}`,
			field: "codingChallenges[0].difficulty",
		},
		{
			name:  "Bad resource url",
			kind:  payload.KindInterviewPrep,
			raw:   `{"summary": "x", "dailySchedule": [{"day": 1, "topics": ["a"]}], "resources": [{"title": "t", "url": "not a url"}]}`,
			field: "resources[0].url",
		},
		{
			name:  "Multiple choice without options",
			kind:  payload.KindStudyPlan,
			raw:   `{"summary": "x", "studyPlan": {"dailySessions": [{"day": 1, "topics": ["a"]}]}, "questions": [{"type": "Multiple-Choice", "question": "q", "options": ["only"]}]}`,
			field: "questions[0].options",
		},
		{name: "Unknown kind", kind: payload.Kind("essay"), raw: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := payload.Parse(tt.kind, []byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, payload.ErrMalformed)

			var perr *payload.Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.NotEmpty(t, perr.Reason)
			if tt.field != "" {
				assert.Equal(t, tt.field, perr.Field)
			}
		})
	}
}

func TestScheduleEvents(t *testing.T) {
	p, err := payload.Parse(payload.KindStudyPlan, []byte(studyPlanJSON))
	require.NoError(t, err)

	start := time.Date(2024, time.October, 7, 0, 0, 0, 0, time.UTC)
	events := payload.ScheduleEvents(payload.Sessions(p), start, payload.ScheduleOptions{
		Time:     "18:00",
		Color:    "#1E3A8A",
		Course:   "Physics",
		IDPrefix: "thermo",
	})
	require.Len(t, events, 2)

	assert.Equal(t, model.Event{
		ID:          "thermo-day-1",
		Title:       "Day 1: Heat, Work",
		Date:        "2024-10-07",
		Time:        "18:00",
		Description: "Duration: 2 hours\n- Read ch. 1\nQuiz: 1 questions",
		Color:       "#1E3A8A",
		Course:      "Physics",
		Repeat:      model.RepeatNone,
	}, events[0])

	// Day 3 lands two days after day 1.
	assert.Equal(t, "thermo-day-3", events[1].ID)
	assert.Equal(t, "2024-10-09", events[1].Date)
}

func TestScheduleEventsAllDay(t *testing.T) {
	sessions := []payload.Session{{Day: 2, Topics: []string{"Graphs"}}}
	events := payload.ScheduleEvents(sessions, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), payload.ScheduleOptions{})
	require.Len(t, events, 1)
	assert.True(t, events[0].AllDay)
	assert.Equal(t, model.AllDayTime, events[0].Time)
	assert.Equal(t, "2025-01-01", events[0].Date)
	assert.NotEmpty(t, events[0].ID)
}
