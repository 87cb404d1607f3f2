package understand

import (
	"context"

	"github.com/tbxark/slotagent/types"
)

// Reason classifies why an utterance does not answer the current question.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonGreeting     Reason = "greeting"
	ReasonIncomplete   Reason = "incomplete"
	ReasonIrrelevant   Reason = "irrelevant"
	ReasonIntent       Reason = "intent"
	ReasonAmbiguous    Reason = "ambiguous"
	ReasonUndetermined Reason = "undetermined"
)

var reasonText = map[Reason]string{
	ReasonGreeting:     "User is greeting or making small talk",
	ReasonIncomplete:   "Answer is incomplete or unclear",
	ReasonIrrelevant:   "Answer is irrelevant to the question",
	ReasonIntent:       "User is expressing intent but not answering the current question",
	ReasonAmbiguous:    "Answer is not clear enough",
	ReasonUndetermined: "Cannot determine the next step",
}

// Normalize maps unknown values onto the closed set.
func (r Reason) Normalize() Reason {
	if _, ok := reasonText[r]; ok {
		return r
	}
	return ReasonAmbiguous
}

// Text is the default display string of the reason.
func (r Reason) Text() string {
	return reasonText[r.Normalize()]
}

type Request struct {
	History   []types.QA
	Question  string
	Utterance string
}

type Verdict struct {
	Valid  bool
	Reason Reason
	// Detail is the oracle's own wording, kept for display only.
	Detail string
	Usage  types.Usage
}

func Valid(usage types.Usage) *Verdict {
	return &Verdict{Valid: true, Usage: usage}
}

func Invalid(reason Reason, detail string, usage types.Usage) *Verdict {
	return &Verdict{Reason: reason.Normalize(), Detail: detail, Usage: usage}
}

// DisplayReason returns the oracle detail, falling back to the reason text.
func (v *Verdict) DisplayReason() string {
	if v.Detail != "" {
		return v.Detail
	}
	return v.Reason.Text()
}

type Understander interface {
	Understand(ctx context.Context, req *Request) (*Verdict, error)
}
