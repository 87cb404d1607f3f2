package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/slotagent/types"
)

var _ adk.Agent = (*Agent)(nil)

// Agent exposes a Flow to an adk.Runner. The last input message is the
// user utterance; the state key travels in the context. Completed states
// are remembered per key so a replayed turn after completion stays a no-op.
type Agent struct {
	name        string
	description string
	flow        *Flow
	fields      []types.FieldSpec
	onResponse  func(ctx context.Context, resp *Response)

	mu        sync.Mutex
	completed map[string]*types.DialogueState
}

type AgentOption func(*Agent)

// WithResponseHook observes every turn result, e.g. to read the collected
// data once the conversation completes.
func WithResponseHook(hook func(ctx context.Context, resp *Response)) AgentOption {
	return func(a *Agent) {
		a.onResponse = hook
	}
}

func NewAgent(name, description string, flow *Flow, fields []types.FieldSpec, opts ...AgentOption) *Agent {
	a := &Agent{
		name:        name,
		description: description,
		flow:        flow,
		fields:      fields,
		completed:   make(map[string]*types.DialogueState),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

// Reset forgets the completed conversation for the context's state key, so
// the next turn starts a new one.
func (a *Agent) Reset(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.completed, stateKeyOrDefault(ctx))
}

func (a *Agent) completedState(key string) *types.DialogueState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completed[key]
}

func (a *Agent) remember(key string, resp *Response) {
	if !resp.Completed || resp.State == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completed[key] = resp.State.Clone()
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if input == nil || len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		key := stateKeyOrDefault(ctx)
		resp, err := a.flow.Invoke(ctx, &Request{
			UserInput: input.Messages[len(input.Messages)-1].Content,
			Fields:    a.fields,
			State:     a.completedState(key),
		})
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow invoke failed: %w", err),
			})
			return
		}
		a.remember(key, resp)
		if a.onResponse != nil {
			a.onResponse(ctx, resp)
		}
		gen.Send(&adk.AgentEvent{
			AgentName: a.name,
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message:     schema.AssistantMessage(resp.Message, nil),
					Role:        schema.Assistant,
				},
			},
		})
	}()
	return iter
}
