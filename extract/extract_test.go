package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/slotagent/modeltest"
	"github.com/tbxark/slotagent/structured"
	"github.com/tbxark/slotagent/types"
)

func sampleFields() []types.Field {
	return []types.Field{
		{Name: "name", Question: "What is your name?", Required: true, Value: "John"},
		{Name: "phone", Question: "What is your contact number?", Required: true},
		{Name: "email", Question: "What is your email?", Required: true},
	}
}

func TestToolBasedExtractor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := modeltest.NewScriptedModel(
		modeltest.ToolReply(extractFieldsToolName, `{"values":[{"name":"phone","value":"13812345678"},{"name":"email","value":"refused"}]}`),
		modeltest.ToolReply(extractFieldsToolName, `{"values":[]}`),
		modeltest.ErrorReply(errors.New("connection refused")),
	)
	e, err := NewToolBasedExtractor(m)
	require.NoError(t, err)

	req := &Request{Fields: sampleFields(), Current: "phone", Utterance: "13812345678, and I won't give my email"}
	out, err := e.Extract(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "13812345678", "email": types.RefusedValue}, out.Values)
	assert.Equal(t, 15, out.Usage.TotalTokens)

	prompt := m.LastUserPrompt()
	assert.Contains(t, prompt, `"currentValue":"John"`)
	assert.Contains(t, prompt, "# Field currently asked:\nphone")
	assert.Contains(t, prompt, "# User input:\n13812345678, and I won't give my email")

	out, err = e.Extract(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, out.Values)

	_, err = e.Extract(ctx, req)
	assert.ErrorIs(t, err, types.ErrOracleUnavailable)
}

func TestJSONExtractor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := modeltest.NewScriptedModel(
		modeltest.TextReply("```json\n{\"phone\": \"13812345678\", \"email\": null}\n```"),
		modeltest.TextReply(`{"phone": }`),
	)
	e := NewJSONExtractor(m)
	req := &Request{Fields: sampleFields(), Utterance: "13812345678"}

	out, err := e.Extract(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "13812345678"}, out.Values)

	_, err = e.Extract(ctx, req)
	assert.ErrorIs(t, err, structured.ErrMalformedOutput)
}

func TestFailbackExtractor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := modeltest.NewScriptedModel(
		modeltest.TextReply(`{"phone": "13812345678"}`),
		modeltest.TextReply(`{"phone": "13812345678"}`),
		modeltest.ErrorReply(errors.New("connection reset")),
		modeltest.ErrorReply(errors.New("connection reset")),
	)
	tool, err := NewToolBasedExtractor(m)
	require.NoError(t, err)
	e := NewFailbackExtractor(tool, NewJSONExtractor(m))
	req := &Request{Fields: sampleFields(), Current: "phone", Utterance: "13812345678"}

	out, err := e.Extract(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "13812345678"}, out.Values)
	assert.Equal(t, types.Usage{Calls: 2, PromptTokens: 16, CompletionTokens: 4, TotalTokens: 20}, out.Usage)

	_, err = e.Extract(ctx, req)
	assert.ErrorIs(t, err, types.ErrOracleUnavailable)

	_, err = NewFailbackExtractor().Extract(ctx, req)
	assert.Error(t, err)
}

func TestParseJSONObject(t *testing.T) {
	t.Parallel()
	values, err := ParseJSONObject(`Sure! {"age": 25, "vip": true, "name": " Ann ", "tags": ["a"]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"age": "25", "vip": "true", "name": "Ann", "tags": `["a"]`}, values)

	values, err = ParseJSONObject("nothing to extract")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	got := Sanitize(sampleFields(), map[string]string{
		"name":    "Jack",
		"PHONE":   "13812345678",
		"email":   "",
		"address": "Main St",
	})
	assert.Equal(t, map[string]string{"phone": "13812345678"}, got)
}

func TestSanitizeTrimsAndPrefersExactName(t *testing.T) {
	t.Parallel()
	got := Sanitize(sampleFields(), map[string]string{
		"phone": "   ",
		"Email": "upper@example.com",
		"email": " lower@example.com ",
	})
	assert.Equal(t, map[string]string{"email": "lower@example.com"}, got)

	got = Sanitize(sampleFields(), map[string]string{
		"PHONE": "2",
		"Phone": "1",
		"email": "\t",
	})
	assert.Equal(t, map[string]string{"phone": "2"}, got)
}
