package payload

// Kind tags a payload variant.
type Kind string

const (
	KindStudyPlan     Kind = "study_plan"
	KindInterviewPrep Kind = "interview_prep"
)

// Payload is implemented by every parsed variant.
type Payload interface {
	Kind() Kind
}

type QA struct {
	Question string `json:"question" validate:"notblank"`
	Answer   string `json:"answer" validate:"notblank"`
}

type Quiz struct {
	Questions []QA `json:"questions" validate:"dive"`
}

// TopicResource is a study-plan link for one topic.
type TopicResource struct {
	Topic       string `json:"topic"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description"`
}

// Session is one day of a study or interview-prep schedule.
type Session struct {
	Day       int             `json:"day" validate:"min=1"`
	Tasks     []string        `json:"tasks,omitempty" validate:"dive,notblank"`
	Topics    []string        `json:"topics" validate:"min=1,dive,notblank"`
	Duration  string          `json:"duration"`
	Resources []TopicResource `json:"resources,omitempty" validate:"dive"`
	Quiz      *Quiz           `json:"quiz,omitempty"`
}

type FinalExamPreparation struct {
	Revision []string `json:"revision" validate:"dive,notblank"`
	MockExam string   `json:"mockExam"`
}

type Schedule struct {
	DailySessions        []Session             `json:"dailySessions" validate:"min=1,dive"`
	FinalExamPreparation *FinalExamPreparation `json:"finalExamPreparation,omitempty"`
}

// ExamQuestion is one generated exam question. Type is free text such as
// "multiple choice", "short answer" or "fill in the blanks".
type ExamQuestion struct {
	Type     string   `json:"type" validate:"notblank"`
	Question string   `json:"question" validate:"notblank"`
	Options  []string `json:"options,omitempty" validate:"dive,notblank"`
	Answer   string   `json:"answer"`
	Details  string   `json:"details"`
}

// StudyPlan is generated from an uploaded course document.
type StudyPlan struct {
	Summary   string         `json:"summary" validate:"notblank"`
	StudyPlan Schedule       `json:"studyPlan"`
	Questions []ExamQuestion `json:"questions" validate:"dive"`
}

func (StudyPlan) Kind() Kind { return KindStudyPlan }

type CodingChallenge struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
}

type LinkResource struct {
	Title       string `json:"title" validate:"notblank"`
	URL         string `json:"url" validate:"omitempty,url"`
	Description string `json:"description"`
}

// InterviewPrep is generated from a job description and resume.
type InterviewPrep struct {
	Summary          string            `json:"summary" validate:"notblank"`
	DailySchedule    []Session         `json:"dailySchedule" validate:"min=1,dive"`
	KeyTopics        []string          `json:"keyTopics" validate:"dive,notblank"`
	SampleQuestions  []QA              `json:"sampleQuestions" validate:"dive"`
	CodingChallenges []CodingChallenge `json:"codingChallenges" validate:"dive"`
	BehavioralTips   []string          `json:"behavioralTips" validate:"dive,notblank"`
	Resources        []LinkResource    `json:"resources" validate:"dive"`
}

func (InterviewPrep) Kind() Kind { return KindInterviewPrep }
