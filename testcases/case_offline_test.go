package testcases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/slotagent/agent"
	"github.com/tbxark/slotagent/modeltest"
	"github.com/tbxark/slotagent/store"
	"github.com/tbxark/slotagent/types"
)

func newFileFlow(t *testing.T, dir string, m *modeltest.ScriptedModel) *agent.Flow {
	t.Helper()
	cache, err := store.NewFileCache(dir)
	require.NoError(t, err)
	flow, err := agent.NewToolBasedFlow(store.NewStateStore(cache), m)
	require.NoError(t, err)
	return flow
}

// TestResumeAcrossRestart runs a conversation over two flow instances that
// share only the state directory.
func TestResumeAcrossRestart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := agent.WithStateKey(context.Background(), "user-42")

	first := newFileFlow(t, dir, modeltest.NewScriptedModel(
		modeltest.ToolReply("judge_answer", `{"valid":false,"reason":"intent","detail":"wants a callback"}`),
		modeltest.ToolReply("extract_fields", `{"values":[]}`),
		modeltest.ToolReply("judge_answer", `{"valid":true}`),
		modeltest.ToolReply("extract_fields", `{"values":[{"name":"name","value":"Alice"}]}`),
	))
	resp, err := first.Invoke(ctx, &agent.Request{UserInput: "Please call me back", Fields: ContactFields()})
	require.NoError(t, err)
	assert.Equal(t, "I understand you want to be contacted. To help you better, What is your name?", resp.Message)

	resp, err = first.Invoke(ctx, &agent.Request{UserInput: "Alice", Fields: ContactFields()})
	require.NoError(t, err)
	assert.Equal(t, "What is your contact number?", resp.Message)

	second := newFileFlow(t, dir, modeltest.NewScriptedModel(
		modeltest.ToolReply("judge_answer", `{"valid":true}`),
		modeltest.ToolReply("extract_fields", `{"values":[{"name":"phone","value":"555-0100"},{"name":"email","value":"refused"},{"name":"name","value":"Bob"}]}`),
	))
	resp, err = second.Invoke(ctx, &agent.Request{UserInput: "555-0100, no email please"})
	require.NoError(t, err)
	assert.Equal(t, types.PhaseAwaitingConfirmation, resp.Phase)
	assert.Equal(t, "Alice", resp.State.Fields[0].Value)
	assert.True(t, resp.State.Fields[2].Refused())
	assert.Contains(t, resp.Message, "What is your email address? refused")

	resp, err = second.Invoke(ctx, &agent.Request{UserInput: "edit"})
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCorrecting, resp.Phase)

	resp, err = second.Invoke(ctx, &agent.Request{UserInput: "email: alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, types.PhaseAwaitingConfirmation, resp.Phase)

	resp, err = second.Invoke(ctx, &agent.Request{UserInput: "confirmed"})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, map[string]string{
		"name":  "Alice",
		"phone": "555-0100",
		"email": "alice@example.com",
	}, resp.Collected)

	fresh, err := second.Invoke(ctx, &agent.Request{UserInput: "", Fields: ContactFields()})
	require.NoError(t, err)
	assert.Equal(t, "What is your name?", fresh.Message, "a finished session starts over")
}

func TestOracleOutage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flow := newFileFlow(t, t.TempDir(), modeltest.NewScriptedModel())

	_, err := flow.Invoke(ctx, &agent.Request{UserInput: "Alice", Fields: ContactFields()})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOracleUnavailable)
}
