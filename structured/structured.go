package structured

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/slotagent/types"
)

// ErrMalformedOutput reports a model reply that could not be decoded into
// the expected shape.
var ErrMalformedOutput = errors.New("malformed model output")

// UsageError carries the consumption of a model call whose reply could not
// be used.
type UsageError struct {
	Usage types.Usage
	Err   error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// UsageOf returns the usage recorded in err, if any.
func UsageOf(err error) types.Usage {
	var ue *UsageError
	if errors.As(err, &ue) {
		return ue.Usage
	}
	return types.Usage{}
}

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Chain forces the model to answer through a single tool whose arguments
// decode into TOutput.
type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
	}, nil
}

func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, types.Usage, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, types.Usage{}, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := s.ChatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
	)
	if err != nil {
		return nil, types.Usage{}, fmt.Errorf("%w: call model failed: %w", types.ErrOracleUnavailable, err)
	}
	usage := types.UsageFromMessage(response)

	args := ""
	for _, tc := range response.ToolCalls {
		if tc.Function.Name == s.ToolInfo.Name {
			args = tc.Function.Arguments
			break
		}
	}
	if args == "" && len(response.ToolCalls) > 0 {
		args = response.ToolCalls[0].Function.Arguments
	}
	if args == "" {
		return nil, usage, &UsageError{Usage: usage, Err: fmt.Errorf("%w: no %s tool call in model response: %s", ErrMalformedOutput, s.ToolInfo.Name, response.Content)}
	}

	var result TOutput
	if err := sonic.UnmarshalString(args, &result); err != nil {
		return nil, usage, &UsageError{Usage: usage, Err: fmt.Errorf("%w: parse tool call arguments failed: %w", ErrMalformedOutput, err)}
	}
	return &result, usage, nil
}

func (s *Chain[TInput, TOutput]) GetToolInfo() *schema.ToolInfo {
	return s.ToolInfo
}

// TextChain is the tool-less variant for models that answer in plain text.
type TextChain[TInput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.BaseChatModel
}

func NewTextChain[TInput any](chatModel model.BaseChatModel, promptBuilder PromptBuilder[TInput]) *TextChain[TInput] {
	return &TextChain[TInput]{PromptBuilder: promptBuilder, ChatModel: chatModel}
}

func (s *TextChain[TInput]) Invoke(ctx context.Context, input TInput) (string, types.Usage, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return "", types.Usage{}, fmt.Errorf("build prompt failed: %w", err)
	}
	response, err := s.ChatModel.Generate(ctx, messages)
	if err != nil {
		return "", types.Usage{}, fmt.Errorf("%w: call model failed: %w", types.ErrOracleUnavailable, err)
	}
	return response.Content, types.UsageFromMessage(response), nil
}
