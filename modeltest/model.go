// Package modeltest provides a scripted chat model for tests that exercise
// the oracle adapters without a live LLM.
package modeltest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var ErrScriptExhausted = errors.New("scripted model has no more replies")

type Reply struct {
	Message *schema.Message
	Err     error
}

// ScriptedModel returns queued replies in order and records every prompt.
type ScriptedModel struct {
	mu      sync.Mutex
	replies []Reply
	calls   [][]*schema.Message
	tools   []*schema.ToolInfo
}

var _ model.ToolCallingChatModel = (*ScriptedModel)(nil)

func NewScriptedModel(replies ...Reply) *ScriptedModel {
	return &ScriptedModel{replies: replies}
}

// ToolReply builds a reply carrying one tool call.
func ToolReply(name, arguments string) Reply {
	return Reply{Message: &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:   "call_" + name,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      name,
				Arguments: arguments,
			},
		}},
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}},
	}}
}

func TextReply(content string) Reply {
	return Reply{Message: &schema.Message{
		Role:         schema.Assistant,
		Content:      content,
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 8, CompletionTokens: 2, TotalTokens: 10}},
	}}
}

func ErrorReply(err error) Reply {
	return Reply{Err: err}
}

func (m *ScriptedModel) Push(replies ...Reply) {
	m.mu.Lock()
	m.replies = append(m.replies, replies...)
	m.mu.Unlock()
}

func (m *ScriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, input)
	if len(m.replies) == 0 {
		return nil, ErrScriptExhausted
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply.Message, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	m.tools = append(m.tools, tools...)
	m.mu.Unlock()
	return m, nil
}

// Calls returns the prompts received so far.
func (m *ScriptedModel) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]*schema.Message(nil), m.calls...)
}

// LastUserPrompt returns the content of the last user message of the most
// recent call.
func (m *ScriptedModel) LastUserPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	msgs := m.calls[len(m.calls)-1]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == schema.User {
			return msgs[i].Content
		}
	}
	return ""
}
