package agent

import (
	"context"

	"github.com/tbxark/slotagent/types"
)

// StateStore is the persistence boundary of the flow. Implementations are
// best effort and never fail a turn.
type StateStore interface {
	Load(ctx context.Context, key string) (*types.DialogueState, bool)
	Save(ctx context.Context, key string, state *types.DialogueState)
	Delete(ctx context.Context, key string)
}

type Request struct {
	UserInput string `json:"user_input"`
	// Fields is only consulted when the conversation starts.
	Fields []types.FieldSpec `json:"fields,omitempty"`
	// State, when set, is used instead of the stored state.
	State *types.DialogueState `json:"state,omitempty"`
}

type Response struct {
	Message   string               `json:"message"`
	State     *types.DialogueState `json:"state"`
	Phase     types.Phase          `json:"phase"`
	Collected map[string]string    `json:"collected,omitempty"`
	Completed bool                 `json:"completed"`
	Usage     types.Usage          `json:"usage"`
	Metadata  map[string]string    `json:"metadata,omitempty"`
}
