package store

import (
	"context"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/tbxark/slotagent/types"
)

const defaultNamespace = "slotagent:state"

// StateStore persists dialogue state per conversation key. It is best
// effort: read failures look like a miss and write failures are logged and
// dropped, so a broken backend degrades to an in-memory conversation.
type StateStore struct {
	core      Cache[[]byte]
	namespace string
}

type StateStoreOption func(*StateStore)

func WithNamespace(namespace string) StateStoreOption {
	return func(s *StateStore) {
		s.namespace = namespace
	}
}

func NewStateStore(core Cache[[]byte], opts ...StateStoreOption) *StateStore {
	s := &StateStore{core: core, namespace: defaultNamespace}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func NewMemoryStateStore() *StateStore {
	return NewStateStore(NewMemoryCache[[]byte]())
}

func (s *StateStore) key(key string) string {
	return s.namespace + ":" + key
}

func (s *StateStore) Load(ctx context.Context, key string) (*types.DialogueState, bool) {
	data, ok, err := s.core.Get(ctx, s.key(key))
	if err != nil {
		slog.Debug("load dialogue state failed", "key", key, "err", err)
		return nil, false
	}
	if !ok || len(data) == 0 {
		return nil, false
	}
	var state types.DialogueState
	if err := sonic.Unmarshal(data, &state); err != nil {
		slog.Debug("decode dialogue state failed", "key", key, "err", err)
		return nil, false
	}
	if len(state.Fields) == 0 {
		return nil, false
	}
	return &state, true
}

func (s *StateStore) Save(ctx context.Context, key string, state *types.DialogueState) {
	if state == nil {
		return
	}
	data, err := sonic.Marshal(state)
	if err != nil {
		slog.Warn("encode dialogue state failed", "key", key, "err", err)
		return
	}
	if err := s.core.Set(ctx, s.key(key), data); err != nil {
		slog.Warn("save dialogue state failed", "key", key, "err", err)
	}
}

func (s *StateStore) Delete(ctx context.Context, key string) {
	if err := s.core.Del(ctx, s.key(key)); err != nil {
		slog.Warn("delete dialogue state failed", "key", key, "err", err)
	}
}
