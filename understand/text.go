package understand

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/slotagent/structured"
)

const invalidPrefix = "INVALID:"

// DefaultTextSystemPrompt asks for the plain-text verdict protocol: the
// answer verbatim, or "INVALID: <reason>".
const DefaultTextSystemPrompt = `You check replies in an information collection dialogue.

If the user's reply answers the current question (possibly together with other questions), reply with the user's answer only.
Examples inside a question are illustrative, not exhaustive.
Otherwise reply with "INVALID: " followed by the reason:
- "INVALID: User is greeting or making small talk"
- "INVALID: Answer is incomplete, <what is missing>"
- "INVALID: Answer is irrelevant to the question"
- "INVALID: User is expressing intent but not answering the current question"
- "INVALID: Response is too vague" or "INVALID: Response is off-topic"
- "INVALID: Cannot determine next step" when you cannot decide.`

// TextUnderstander speaks the plain-text verdict protocol, for models
// without tool calling.
type TextUnderstander struct {
	chain *structured.TextChain[*Request]
}

func NewTextUnderstander(chatModel model.BaseChatModel, opts ...Option) *TextUnderstander {
	options := newOptions(DefaultTextSystemPrompt, opts...)
	return &TextUnderstander{
		chain: structured.NewTextChain(chatModel, options.promptBuilder(options.systemPromptTemplate)),
	}
}

func (u *TextUnderstander) Understand(ctx context.Context, req *Request) (*Verdict, error) {
	content, usage, err := u.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("judge answer: %w", err)
	}
	v := ParseVerdict(content)
	v.Usage = usage
	return v, nil
}

// ParseVerdict decodes a text protocol reply.
func ParseVerdict(content string) *Verdict {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, invalidPrefix) {
		return &Verdict{Valid: true}
	}
	detail := strings.TrimSpace(strings.TrimPrefix(content, invalidPrefix))
	return &Verdict{Reason: ClassifyReason(detail), Detail: detail}
}

var reasonKeywords = []struct {
	reason   Reason
	keywords []string
}{
	{ReasonGreeting, []string{"greeting", "small talk"}},
	{ReasonIntent, []string{"intent"}},
	{ReasonIncomplete, []string{"incomplete", "unclear"}},
	{ReasonIrrelevant, []string{"irrelevant"}},
	{ReasonUndetermined, []string{"cannot determine"}},
}

// ClassifyReason maps a free-text reason onto the closed set. Order matters:
// the first matching rule wins.
func ClassifyReason(detail string) Reason {
	lower := strings.ToLower(detail)
	for _, rule := range reasonKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reason
			}
		}
	}
	return ReasonAmbiguous
}
