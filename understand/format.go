package understand

import (
	"fmt"
	"strings"
)

func formatHistorySection(req *Request) string {
	if len(req.History) == 0 {
		return "# Collected information:\n none"
	}
	var sb strings.Builder
	sb.WriteString("# Collected information:")
	for _, qa := range req.History {
		sb.WriteString(fmt.Sprintf("\nQ: %s\nA: %s", qa.Question, qa.Answer))
	}
	return sb.String()
}

// FormatRequest renders the validation context sent to the oracle.
func FormatRequest(req *Request) string {
	sections := []string{
		formatHistorySection(req),
		fmt.Sprintf("# Current question:\n%s", req.Question),
		fmt.Sprintf("# User answer:\n%s", req.Utterance),
	}
	return strings.Join(sections, "\n\n")
}
