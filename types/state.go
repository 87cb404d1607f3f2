package types

import (
	"fmt"
	"strings"
)

// DialogueState is the progress record of one conversation. Field order is
// the question order and never changes after initialization.
type DialogueState struct {
	Fields                []Field `json:"fields"`
	CurrentFieldIndex     int     `json:"current_field_index"`
	ConfirmationRequested bool    `json:"confirmation_requested"`
	Confirmed             bool    `json:"confirmed"`
	Completed             bool    `json:"completed"`
}

// NewDialogueState builds a fresh state from a field schema.
func NewDialogueState(specs []FieldSpec) (*DialogueState, error) {
	if err := ValidateSchema(specs); err != nil {
		return nil, err
	}
	fields := make([]Field, 0, len(specs))
	for _, spec := range specs {
		required := true
		if spec.Required != nil {
			required = *spec.Required
		}
		fields = append(fields, Field{
			Name:     strings.TrimSpace(spec.Name),
			Question: spec.Question,
			Required: required,
		})
	}
	return &DialogueState{Fields: fields}, nil
}

func (s *DialogueState) CurrentField() *Field {
	if s.CurrentFieldIndex < 0 || s.CurrentFieldIndex >= len(s.Fields) {
		return nil
	}
	return &s.Fields[s.CurrentFieldIndex]
}

func (s *DialogueState) AllSatisfied() bool {
	for i := range s.Fields {
		if !s.Fields[i].Satisfied() {
			return false
		}
	}
	return true
}

func (s *DialogueState) AnySatisfied() bool {
	for i := range s.Fields {
		if s.Fields[i].Satisfied() {
			return true
		}
	}
	return false
}

// FirstUnsatisfied returns the index of the first field without a value, or
// len(Fields) when every field is satisfied.
func (s *DialogueState) FirstUnsatisfied() int {
	for i := range s.Fields {
		if !s.Fields[i].Satisfied() {
			return i
		}
	}
	return len(s.Fields)
}

func (s *DialogueState) RecomputeIndex() int {
	s.CurrentFieldIndex = s.FirstUnsatisfied()
	return s.CurrentFieldIndex
}

// FieldByName looks a field up case-insensitively.
func (s *DialogueState) FieldByName(name string) (int, *Field) {
	for i := range s.Fields {
		if s.Fields[i].Matches(name) {
			return i, &s.Fields[i]
		}
	}
	return -1, nil
}

func (s *DialogueState) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// History lists the answered questions that precede the current field.
func (s *DialogueState) History() []QA {
	limit := min(s.CurrentFieldIndex, len(s.Fields))
	history := make([]QA, 0, limit)
	for _, f := range s.Fields[:limit] {
		if f.Satisfied() {
			history = append(history, QA{Question: f.Question, Answer: f.Value})
		}
	}
	return history
}

// Collected is the machine-readable view: field name to value for every
// field that holds one.
func (s *DialogueState) Collected() map[string]string {
	data := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Satisfied() {
			data[f.Name] = f.Value
		}
	}
	return data
}

func (s *DialogueState) Phase() Phase {
	switch {
	case s.Completed:
		return PhaseCompleted
	case s.ConfirmationRequested:
		return PhaseAwaitingConfirmation
	case len(s.Fields) > 0 && s.AllSatisfied():
		return PhaseCorrecting
	default:
		return PhaseCollecting
	}
}

// Check verifies the flag and index invariants.
func (s *DialogueState) Check() error {
	if s.Confirmed && !s.ConfirmationRequested {
		return fmt.Errorf("confirmed without confirmation request")
	}
	if s.Completed && (!s.Confirmed || !s.AllSatisfied()) {
		return fmt.Errorf("completed before confirmation of all fields")
	}
	if want := s.FirstUnsatisfied(); s.CurrentFieldIndex != want {
		return fmt.Errorf("current field index %d, want %d", s.CurrentFieldIndex, want)
	}
	return nil
}

func (s *DialogueState) Clone() *DialogueState {
	if s == nil {
		return nil
	}
	c := *s
	c.Fields = append([]Field(nil), s.Fields...)
	return &c
}

// Summary renders one "<question> <value>" line per field in schema order.
func Summary(s *DialogueState) string {
	var sb strings.Builder
	for _, f := range s.Fields {
		sb.WriteString(f.Question)
		sb.WriteString(" ")
		sb.WriteString(f.Value)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
