// Package payload parses the JSON documents returned by the generative model
// into explicit, validated variants. Anything that does not fit a variant is
// rejected with *Error instead of being passed on.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"studycal/internal/validation"
)

// ErrMalformed matches every *Error via errors.Is.
var ErrMalformed = errors.New("payload: malformed")

// Error describes why a payload was rejected.
type Error struct {
	Kind   Kind
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("payload")
	if e.Kind != "" {
		b.WriteString(" " + string(e.Kind))
	}
	if e.Field != "" {
		b.WriteString(": " + e.Field)
	}
	b.WriteString(": " + e.Reason)
	return b.String()
}

func (e *Error) Is(target error) bool { return target == ErrMalformed }

func (e *Error) Unwrap() error { return e.Err }

// Parse decodes raw as the given kind. Markdown code fences around the JSON
// are tolerated.
func Parse(kind Kind, raw []byte) (Payload, error) {
	body := stripFences(raw)
	if len(body) == 0 {
		return nil, &Error{Kind: kind, Reason: "empty payload"}
	}

	switch kind {
	case KindStudyPlan:
		var p StudyPlan
		if err := decode(kind, body, &p); err != nil {
			return nil, err
		}
		if err := check(kind, p); err != nil {
			return nil, err
		}
		if err := checkQuestions(p.Questions); err != nil {
			return nil, err
		}
		return p, nil
	case KindInterviewPrep:
		var p InterviewPrep
		if err := decode(kind, body, &p); err != nil {
			return nil, err
		}
		if err := check(kind, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, &Error{Kind: kind, Reason: "unknown payload kind"}
}

// Detect guesses the variant from the top-level keys.
func Detect(raw []byte) (Kind, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(stripFences(raw), &top); err != nil {
		return "", &Error{Reason: "not a JSON object", Err: err}
	}
	switch {
	case top["studyPlan"] != nil:
		return KindStudyPlan, nil
	case top["dailySchedule"] != nil:
		return KindInterviewPrep, nil
	}
	return "", &Error{Reason: "unrecognised payload shape"}
}

// ParseAny detects the kind and parses raw accordingly.
func ParseAny(raw []byte) (Payload, error) {
	kind, err := Detect(raw)
	if err != nil {
		return nil, err
	}
	return Parse(kind, raw)
}

func stripFences(raw []byte) []byte {
	s := strings.ReplaceAll(string(raw), "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return []byte(strings.TrimSpace(s))
}

func decode(kind Kind, body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &Error{
				Kind:   kind,
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
				Err:    err,
			}
		}
		return &Error{Kind: kind, Reason: "invalid JSON", Err: err}
	}
	if dec.More() {
		return &Error{Kind: kind, Reason: "trailing data after JSON document"}
	}
	return nil
}

func check(kind Kind, v any) error {
	err := validation.Struct(v)
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return &Error{Kind: kind, Reason: err.Error(), Err: err}
	}
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &Error{Kind: kind, Field: fields[0], Reason: verr.Fields[fields[0]], Err: verr}
}

// checkQuestions enforces that multiple-choice questions offer a choice.
func checkQuestions(qs []ExamQuestion) error {
	for i, q := range qs {
		if isMultipleChoice(q.Type) && len(q.Options) < 2 {
			return &Error{
				Kind:   KindStudyPlan,
				Field:  fmt.Sprintf("questions[%d].options", i),
				Reason: "multiple choice question needs at least 2 options",
			}
		}
	}
	return nil
}

func isMultipleChoice(t string) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.ReplaceAll(t, "-", " ")
	return t == "multiple choice" || t == "mcq"
}
