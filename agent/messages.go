package agent

import (
	"fmt"
	"strings"
)

// Messages holds the user-facing wording. Templates marked with verbs are
// passed through fmt.Sprintf.
type Messages struct {
	Review           string // %s summary
	Edited           string // %s summary
	Completed        string // %s summary
	Denial           string
	ConfirmUnclear   string
	AlreadyCompleted string
	UnknownField     string // %s field names
	Intent           string // %s question
	Greeting         string // %s question
	Incomplete       string // %s reason, %s question
	FirstTurn        string // %s question
	Rejected         string // %s reason, %s question
	NotCaught        string // %s question
}

func DefaultMessages() Messages {
	return Messages{
		Review:           "Please review the collected information below. If everything is correct, reply 'yes' to confirm, or reply 'no' / indicate the field name with new value to modify.\n%s",
		Edited:           "Updated. Please review the collected information. Reply 'yes' to confirm, or specify another change.\n%s",
		Completed:        "InformationCollectionCompleted:\n%s",
		Denial:           "Which field would you like to modify? Please reply with field name and new value.",
		ConfirmUnclear:   "Please confirm if the collected information is correct (yes/no).",
		AlreadyCompleted: "The information collection has already been completed.",
		UnknownField:     "I couldn't find that field. Please reply with one of: %s, followed by the new value.",
		Intent:           "I understand you want to be contacted. To help you better, %s",
		Greeting:         "Hello! %s",
		Incomplete:       "%s, please provide %s",
		FirstTurn:        "To get started, %s",
		Rejected:         "%s, %s",
		NotCaught:        "I didn't catch that clearly. %s",
	}
}

func (m Messages) unknownField(names []string) string {
	return fmt.Sprintf(m.UnknownField, strings.Join(names, ", "))
}
