package understand

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbxark/slotagent/structured"
	"github.com/tbxark/slotagent/types"
)

// IntentMatcher spots utterances that state a goal ("please contact me")
// instead of answering. The controller applies it on the first turn only.
type IntentMatcher struct {
	Keywords []string
}

func NewIntentMatcher() *IntentMatcher {
	return &IntentMatcher{
		Keywords: []string{"contact", "be contacted", "reach out", "get in touch", "follow up", "call me", "email me"},
	}
}

func (m *IntentMatcher) Match(utterance string) bool {
	if m == nil {
		return false
	}
	lower := strings.ToLower(utterance)
	for _, kw := range m.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Override returns the verdict forced by an intent expression.
func (m *IntentMatcher) Override(v *Verdict) *Verdict {
	return Invalid(ReasonIntent, "User is expressing intent to be contacted, starting information collection", v.Usage)
}

type FailbackUnderstander struct {
	understanders []Understander
}

func NewFailbackUnderstander(understanders ...Understander) *FailbackUnderstander {
	return &FailbackUnderstander{understanders: understanders}
}

func (u *FailbackUnderstander) Understand(ctx context.Context, req *Request) (*Verdict, error) {
	if len(u.understanders) == 0 {
		return nil, fmt.Errorf("no understander configured")
	}
	var (
		lastErr error
		spent   types.Usage
	)
	for _, understander := range u.understanders {
		v, err := understander.Understand(ctx, req)
		if err == nil {
			v.Usage.Add(spent)
			return v, nil
		}
		spent.Add(structured.UsageOf(err))
		lastErr = err
	}
	return nil, fmt.Errorf("all understanders failed: %w", lastErr)
}
