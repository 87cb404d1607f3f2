package extract

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/slotagent/structured"
	"github.com/tbxark/slotagent/types"
)

const (
	extractFieldsToolName        = "extract_fields"
	extractFieldsToolDescription = "Report the field values contained in the user's input."
)

// DefaultExtractSystemPromptTemplate is the default system prompt of
// ToolBasedExtractor. The template takes the refusal sentinel and the tool
// name.
const DefaultExtractSystemPromptTemplate = `You extract answers from a user's reply in an information collection dialogue.

Rules:
1. Look for answers to every listed question, not only the one currently asked.
2. Infer answers from context when the reply makes them clear. Omit fields you cannot extract.
3. Never change a field that already has a currentValue.
4. Use "%s" only when the user clearly refuses that specific field. A bare "no" applies at most to the field currently asked. Never mark every field refused because of a generic refusal.
5. Reply in the language of the user's input.

Call the '%s' tool with the result.`

type fieldValue struct {
	Name  string `json:"name" jsonschema:"required,description=Field name exactly as listed"`
	Value string `json:"value" jsonschema:"required,description=Extracted value"`
}

type extractFieldsInput struct {
	Values []fieldValue `json:"values" jsonschema:"description=Extracted field values; empty when nothing was found"`
}

type PromptBuilder func(systemPrompt string) structured.PromptBuilder[*Request]

type extractorOptions struct {
	systemPromptTemplate string
	promptBuilder        PromptBuilder
}

type Option func(*extractorOptions)

func WithSystemPromptTemplate(systemPromptTemplate string) Option {
	return func(o *extractorOptions) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

func WithPromptBuilder(promptBuilder PromptBuilder) Option {
	return func(o *extractorOptions) {
		o.promptBuilder = promptBuilder
	}
}

func defaultPromptBuilder(systemPrompt string) structured.PromptBuilder[*Request] {
	return func(ctx context.Context, req *Request) ([]*schema.Message, error) {
		message, err := FormatRequest(req)
		if err != nil {
			return nil, fmt.Errorf("convert to prompt message failed: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(message),
		}, nil
	}
}

func newOptions(defaultTemplate string, opts ...Option) *extractorOptions {
	o := extractorOptions{
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

type ToolBasedExtractor struct {
	chain *structured.Chain[*Request, extractFieldsInput]
}

func NewToolBasedExtractor(chatModel model.ToolCallingChatModel, opts ...Option) (*ToolBasedExtractor, error) {
	options := newOptions(DefaultExtractSystemPromptTemplate, opts...)
	chain, err := structured.NewChain[*Request, extractFieldsInput](
		chatModel,
		options.promptBuilder(fmt.Sprintf(options.systemPromptTemplate, types.RefusedValue, extractFieldsToolName)),
		extractFieldsToolName,
		extractFieldsToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedExtractor{chain: chain}, nil
}

func (e *ToolBasedExtractor) Extract(ctx context.Context, req *Request) (*Extraction, error) {
	result, usage, err := e.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}
	values := make(map[string]string, len(result.Values))
	for _, fv := range result.Values {
		values[fv.Name] = fv.Value
	}
	return &Extraction{Values: values, Usage: usage}, nil
}
