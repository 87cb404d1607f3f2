package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/slotagent/types"
)

type brokenCache struct{}

func (brokenCache) Set(ctx context.Context, key string, val []byte) error {
	return errors.New("disk full")
}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("connection reset")
}

func (brokenCache) Del(ctx context.Context, key string) error {
	return errors.New("connection reset")
}

func (brokenCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("connection reset")
}

func newState(t *testing.T) *types.DialogueState {
	t.Helper()
	state, err := types.NewDialogueState([]types.FieldSpec{
		{Name: "name", Question: "What is your name?"},
		{Name: "phone", Question: "What is your contact number?"},
	})
	require.NoError(t, err)
	state.Fields[0].Value = "John"
	state.RecomputeIndex()
	return state
}

func TestStateStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStateStore()
	state := newState(t)

	_, ok := s.Load(ctx, "conv-1")
	assert.False(t, ok)

	s.Save(ctx, "conv-1", state)
	loaded, ok := s.Load(ctx, "conv-1")
	require.True(t, ok)
	assert.Equal(t, state, loaded)

	_, ok = s.Load(ctx, "conv-2")
	assert.False(t, ok)

	s.Delete(ctx, "conv-1")
	_, ok = s.Load(ctx, "conv-1")
	assert.False(t, ok)
}

func TestStateStoreTreatsCorruptRecordAsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core := NewMemoryCache[[]byte]()
	s := NewStateStore(core, WithNamespace("test"))

	require.NoError(t, core.Set(ctx, "test:conv", []byte("{not json")))
	_, ok := s.Load(ctx, "conv")
	assert.False(t, ok)

	require.NoError(t, core.Set(ctx, "test:conv", []byte(`{"fields":[]}`)))
	_, ok = s.Load(ctx, "conv")
	assert.False(t, ok)
}

func TestStateStoreSwallowsBackendErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStateStore(brokenCache{})

	assert.NotPanics(t, func() {
		s.Save(ctx, "conv", newState(t))
		s.Delete(ctx, "conv")
	})
	_, ok := s.Load(ctx, "conv")
	assert.False(t, ok)
}

func TestFileCacheBackedStateStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := NewStateStore(core)
	state := newState(t)

	s.Save(ctx, "user/42", state)
	exists, err := core.Exists(ctx, s.key("user/42"))
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, ok := s.Load(ctx, "user/42")
	require.True(t, ok)
	assert.Equal(t, state, loaded)

	s.Delete(ctx, "user/42")
	exists, err = core.Exists(ctx, s.key("user/42"))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, core.Del(ctx, s.key("user/42")))
}
