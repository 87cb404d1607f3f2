package types

import "strings"

// RefusedValue marks a field the user explicitly declined to provide.
const RefusedValue = "refused"

type Phase string

const (
	PhaseCollecting           Phase = "collecting"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseCorrecting           Phase = "correcting"
	PhaseCompleted            Phase = "completed"
)

// FieldSpec is one entry of the field schema supplied on the first turn.
type FieldSpec struct {
	Name     string `json:"name" yaml:"name"`
	Question string `json:"question" yaml:"question"`
	Required *bool  `json:"required,omitempty" yaml:"required,omitempty"`
}

type Field struct {
	Name     string `json:"name"`
	Question string `json:"question"`
	Required bool   `json:"required"`
	Value    string `json:"value,omitempty"`
}

// Satisfied reports whether the field holds an answer; a refusal counts.
func (f *Field) Satisfied() bool {
	return f.Value != ""
}

func (f *Field) Refused() bool {
	return f.Value == RefusedValue
}

func (f *Field) Matches(name string) bool {
	return strings.EqualFold(f.Name, strings.TrimSpace(name))
}

// QA is a question/answer pair of an already satisfied field.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
