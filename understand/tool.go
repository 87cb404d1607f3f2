package understand

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/slotagent/structured"
)

const (
	judgeAnswerToolName        = "judge_answer"
	judgeAnswerToolDescription = "Report whether the user's reply answers the current question."
)

// DefaultJudgeSystemPromptTemplate is the default system prompt of
// ToolBasedUnderstander. The template may contain a single "%s" placeholder
// for the tool name.
const DefaultJudgeSystemPromptTemplate = `You check replies in an information collection dialogue.

Decide whether the user's reply answers the current question:
- Examples inside a question are illustrative, not exhaustive. Accept any reply that satisfies the intent of the question.
- A reply that answers the current question and other questions as well is valid.
- greeting: the user greets or makes small talk.
- incomplete: the reply is incomplete or unclear (e.g. "my phone" without a number). Put the missing part in detail.
- irrelevant: the reply has nothing to do with the question.
- intent: the user states a goal (e.g. "I want to be contacted") instead of answering.
- ambiguous: the reply is vague, evasive or off-topic ("maybe", "not sure").
- undetermined: you cannot decide from the information given.

Call the '%s' tool with the result.`

type judgeAnswerInput struct {
	Valid  bool   `json:"valid" jsonschema:"required,description=True when the reply answers the current question"`
	Reason Reason `json:"reason,omitempty" jsonschema:"enum=greeting,enum=incomplete,enum=irrelevant,enum=intent,enum=ambiguous,enum=undetermined,description=Why the reply is invalid"`
	Detail string `json:"detail,omitempty" jsonschema:"description=Short human readable explanation when invalid"`
}

type PromptBuilder func(systemPrompt string) structured.PromptBuilder[*Request]

type understanderOptions struct {
	systemPromptTemplate string
	promptBuilder        PromptBuilder
}

type Option func(*understanderOptions)

func WithSystemPromptTemplate(systemPromptTemplate string) Option {
	return func(o *understanderOptions) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

func WithPromptBuilder(promptBuilder PromptBuilder) Option {
	return func(o *understanderOptions) {
		o.promptBuilder = promptBuilder
	}
}

func defaultPromptBuilder(systemPrompt string) structured.PromptBuilder[*Request] {
	return func(ctx context.Context, req *Request) ([]*schema.Message, error) {
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(FormatRequest(req)),
		}, nil
	}
}

func newOptions(defaultTemplate string, opts ...Option) *understanderOptions {
	o := understanderOptions{
		systemPromptTemplate: defaultTemplate,
		promptBuilder:        defaultPromptBuilder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &o
}

type ToolBasedUnderstander struct {
	chain *structured.Chain[*Request, judgeAnswerInput]
}

func NewToolBasedUnderstander(chatModel model.ToolCallingChatModel, opts ...Option) (*ToolBasedUnderstander, error) {
	options := newOptions(DefaultJudgeSystemPromptTemplate, opts...)
	chain, err := structured.NewChain[*Request, judgeAnswerInput](
		chatModel,
		options.promptBuilder(fmt.Sprintf(options.systemPromptTemplate, judgeAnswerToolName)),
		judgeAnswerToolName,
		judgeAnswerToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedUnderstander{chain: chain}, nil
}

func (u *ToolBasedUnderstander) Understand(ctx context.Context, req *Request) (*Verdict, error) {
	result, usage, err := u.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("judge answer: %w", err)
	}
	if result.Valid {
		return Valid(usage), nil
	}
	return Invalid(result.Reason, result.Detail, usage), nil
}
