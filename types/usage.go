package types

import "github.com/cloudwego/eino/schema"

// Usage accumulates model consumption across the oracle calls of one turn.
type Usage struct {
	Calls            int `json:"calls"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func UsageFromMessage(msg *schema.Message) Usage {
	u := Usage{Calls: 1}
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return u
	}
	u.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
	u.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
	u.TotalTokens = msg.ResponseMeta.Usage.TotalTokens
	return u
}

func (u *Usage) Add(other Usage) {
	u.Calls += other.Calls
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
