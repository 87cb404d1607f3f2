package extract

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

type fieldView struct {
	Name         string `json:"name"`
	Question     string `json:"question"`
	CurrentValue string `json:"currentValue"`
}

// FormatRequest renders the field list and the utterance for the oracle.
func FormatRequest(req *Request) (string, error) {
	views := make([]fieldView, 0, len(req.Fields))
	for _, f := range req.Fields {
		views = append(views, fieldView{Name: f.Name, Question: f.Question, CurrentValue: f.Value})
	}
	fieldsJSON, err := sonic.MarshalString(views)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	sections := []string{
		fmt.Sprintf("# Information to collect:\n%s", fieldsJSON),
	}
	if req.Current != "" {
		sections = append(sections, fmt.Sprintf("# Field currently asked:\n%s", req.Current))
	}
	sections = append(sections, fmt.Sprintf("# User input:\n%s", req.Utterance))
	return strings.Join(sections, "\n\n"), nil
}
