package payload

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TypeAll disables the question type filter.
const TypeAll = "all"

// Questions returns the exam questions of a parsed payload.
func Questions(p Payload) []ExamQuestion {
	if v, ok := p.(StudyPlan); ok {
		return v.Questions
	}
	return nil
}

// FilterSessions keeps sessions with a topic containing search, ignoring
// case, ordered by day. The input is not modified.
func FilterSessions(sessions []Session, search string, desc bool) []Session {
	search = strings.ToLower(search)
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if slices.ContainsFunc(s.Topics, func(topic string) bool {
			return strings.Contains(strings.ToLower(topic), search)
		}) {
			out = append(out, s)
		}
	}

	slices.SortStableFunc(out, func(a, b Session) int {
		if desc {
			return b.Day - a.Day
		}
		return a.Day - b.Day
	})
	return out
}

// FilterQuestions keeps questions of type typ (case-insensitive, TypeAll or
// empty for any) whose text contains search, ordered by question text.
func FilterQuestions(qs []ExamQuestion, typ, search string, desc bool) []ExamQuestion {
	search = strings.ToLower(search)
	out := make([]ExamQuestion, 0, len(qs))
	for _, q := range qs {
		if typ != "" && !strings.EqualFold(typ, TypeAll) && !strings.EqualFold(q.Type, typ) {
			continue
		}
		if !strings.Contains(strings.ToLower(q.Question), search) {
			continue
		}
		out = append(out, q)
	}

	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b ExamQuestion) int {
		if desc {
			return col.CompareString(b.Question, a.Question)
		}
		return col.CompareString(a.Question, b.Question)
	})
	return out
}
