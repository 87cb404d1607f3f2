package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/slotagent/confirm"
	"github.com/tbxark/slotagent/extract"
	"github.com/tbxark/slotagent/patch"
	"github.com/tbxark/slotagent/types"
	"github.com/tbxark/slotagent/understand"
)

// Flow runs one slot-filling turn per Invoke. Turns for the same state key
// must be serialized by the caller.
type Flow struct {
	store        StateStore
	understander understand.Understander
	extractor    extract.Extractor
	intent       *understand.IntentMatcher
	rules        confirm.Rules
	messages     Messages
}

func NewFlow(
	store StateStore,
	understander understand.Understander,
	extractor extract.Extractor,
	opts ...Option,
) *Flow {
	f := &Flow{
		store:        store,
		understander: understander,
		extractor:    extractor,
		intent:       understand.NewIntentMatcher(),
		rules:        confirm.DefaultRules(),
		messages:     DefaultMessages(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// NewToolBasedFlow wires both oracles to a tool calling model. Each falls
// back to a plain text protocol when the tool call fails.
func NewToolBasedFlow(store StateStore, chatModel model.ToolCallingChatModel, opts ...Option) (*Flow, error) {
	toolUnderstander, err := understand.NewToolBasedUnderstander(chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based understander: %w", err)
	}
	toolExtractor, err := extract.NewToolBasedExtractor(chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based extractor: %w", err)
	}
	understander := understand.NewFailbackUnderstander(toolUnderstander, understand.NewTextUnderstander(chatModel))
	extractor := extract.NewFailbackExtractor(toolExtractor, extract.NewJSONExtractor(chatModel))
	return NewFlow(store, understander, extractor, opts...), nil
}

type turn struct {
	key   string
	state *types.DialogueState
	usage types.Usage
}

func (f *Flow) Invoke(ctx context.Context, req *Request) (*Response, error) {
	key := stateKeyOrDefault(ctx)
	ctx = callbacks.EnsureRunInfo(ctx, "SlotFlow", "Agent")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"input": req.UserInput,
		"key":   key,
	})

	defer func() {
		if r := recover(); r != nil {
			callbacks.OnError(ctx, fmt.Errorf("panic in Flow.Invoke: %v", r))
			panic(r)
		}
	}()

	resp, err := f.runInternal(ctx, key, req)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}

	callbacks.OnEnd(ctx, map[string]any{
		"output":              resp.Message,
		"phase":               string(resp.Phase),
		"current_field_index": resp.State.CurrentFieldIndex,
		"completed":           resp.Completed,
		"usage":               resp.Usage,
	})
	return resp, nil
}

func (f *Flow) runInternal(ctx context.Context, key string, req *Request) (*Response, error) {
	state, fromStore, err := f.resume(ctx, key, req)
	if err != nil {
		return nil, err
	}
	t := &turn{key: key, state: state}
	input := strings.TrimSpace(req.UserInput)
	slog.Debug("Running turn", "key", key, "phase", state.Phase(), "index", state.CurrentFieldIndex)

	if state.Completed {
		// A completed record left in the store means the earlier delete failed.
		if fromStore {
			f.store.Delete(ctx, key)
		}
		return t.response(f.messages.AlreadyCompleted), nil
	}

	if state.ConfirmationRequested && !state.Confirmed {
		intent := f.rules.Classify(input)
		slog.Debug("Classified confirmation", "intent", intent)
		switch intent {
		case confirm.IntentAccept:
			state.Confirmed = true
		case confirm.IntentReject:
			state.ConfirmationRequested = false
			return f.save(ctx, t, f.messages.Denial), nil
		default:
			return f.save(ctx, t, f.messages.ConfirmUnclear), nil
		}
	}

	if state.Confirmed && state.AllSatisfied() {
		return f.finalize(ctx, t), nil
	}

	if state.AllSatisfied() {
		return f.directEdit(ctx, t, input)
	}

	if input == "" {
		return f.save(ctx, t, state.CurrentField().Question), nil
	}

	return f.collect(ctx, t, input)
}

func (f *Flow) resume(ctx context.Context, key string, req *Request) (*types.DialogueState, bool, error) {
	if req.State != nil {
		state := req.State.Clone()
		state.RecomputeIndex()
		return state, false, nil
	}
	if state, ok := f.store.Load(ctx, key); ok {
		state.RecomputeIndex()
		return state, true, nil
	}
	state, err := types.NewDialogueState(req.Fields)
	if err != nil {
		return nil, false, fmt.Errorf("failed to initialize dialogue state: %w", err)
	}
	slog.Debug("Initialized dialogue state", "key", key, "fields", len(state.Fields))
	return state, false, nil
}

func (f *Flow) finalize(ctx context.Context, t *turn) *Response {
	t.state.Completed = true
	f.store.Delete(ctx, t.key)
	slog.Info("Information collection completed", "key", t.key)
	resp := t.response(fmt.Sprintf(f.messages.Completed, types.Summary(t.state)))
	resp.Collected = t.state.Collected()
	return resp
}

// directEdit handles the correcting phase entered after a rejected review.
func (f *Flow) directEdit(ctx context.Context, t *turn, input string) (*Response, error) {
	if input == "" {
		return f.save(ctx, t, f.messages.Denial), nil
	}
	name, value, ok := confirm.ParseEdit(input)
	var field *types.Field
	if ok {
		_, field = t.state.FieldByName(name)
	}
	if field == nil {
		slog.Debug("Direct edit did not match a field", "input", input)
		return f.save(ctx, t, f.messages.unknownField(t.state.FieldNames())), nil
	}

	next, err := patch.Apply(t.state, patch.FieldUpdates(t.state.Fields, map[string]string{field.Name: value}))
	if err != nil {
		return nil, fmt.Errorf("failed to apply edit: %w", err)
	}
	next.RecomputeIndex()
	next.ConfirmationRequested = true
	t.state = next
	resp := f.save(ctx, t, fmt.Sprintf(f.messages.Edited, types.Summary(next)))
	resp.Metadata = map[string]string{"field": field.Name}
	return resp, nil
}

func (f *Flow) collect(ctx context.Context, t *turn, input string) (*Response, error) {
	state := t.state
	current := state.CurrentField()
	firstTurn := state.CurrentFieldIndex == 0 && !state.AnySatisfied()

	verdict, err := f.understander.Understand(ctx, &understand.Request{
		History:   state.History(),
		Question:  current.Question,
		Utterance: input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate answer: %w", err)
	}
	t.usage.Add(verdict.Usage)
	overridden := firstTurn && f.intent.Match(input)
	if overridden {
		verdict = f.intent.Override(verdict)
	}
	slog.Debug("Validated answer", "valid", verdict.Valid, "reason", verdict.Reason, "first_turn", firstTurn)

	extraction, err := f.extractor.Extract(ctx, &extract.Request{
		Fields:    append([]types.Field(nil), state.Fields...),
		Current:   current.Name,
		Utterance: input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract answers: %w", err)
	}
	t.usage.Add(extraction.Usage)

	updates := extract.Sanitize(state.Fields, extraction.Values)
	slog.Debug("Extracted answers", "updates", updates)
	if len(updates) == 0 {
		resp := f.save(ctx, t, f.reprompt(verdict, current.Question, firstTurn, overridden))
		if !verdict.Valid {
			resp.Metadata = map[string]string{"reason": string(verdict.Reason)}
		}
		return resp, nil
	}

	next, err := patch.Apply(state, patch.FieldUpdates(state.Fields, updates))
	if err != nil {
		return nil, fmt.Errorf("failed to apply extracted answers: %w", err)
	}
	next.RecomputeIndex()
	t.state = next
	if next.AllSatisfied() {
		next.ConfirmationRequested = true
		return f.save(ctx, t, fmt.Sprintf(f.messages.Review, types.Summary(next))), nil
	}
	return f.save(ctx, t, next.CurrentField().Question), nil
}

// reprompt words a turn that filled nothing. The intent acknowledgement is
// reserved for the first-turn intent override.
func (f *Flow) reprompt(v *understand.Verdict, question string, firstTurn, overridden bool) string {
	if v.Valid {
		return fmt.Sprintf(f.messages.NotCaught, question)
	}
	switch v.Reason {
	case understand.ReasonIntent:
		if overridden {
			return fmt.Sprintf(f.messages.Intent, question)
		}
	case understand.ReasonGreeting:
		return fmt.Sprintf(f.messages.Greeting, question)
	case understand.ReasonIncomplete:
		return fmt.Sprintf(f.messages.Incomplete, v.DisplayReason(), question)
	}
	if firstTurn {
		return fmt.Sprintf(f.messages.FirstTurn, question)
	}
	return fmt.Sprintf(f.messages.Rejected, v.DisplayReason(), question)
}

func (f *Flow) save(ctx context.Context, t *turn, message string) *Response {
	f.store.Save(ctx, t.key, t.state)
	return t.response(message)
}

func (t *turn) response(message string) *Response {
	return &Response{
		Message:   message,
		State:     t.state,
		Phase:     t.state.Phase(),
		Completed: t.state.Completed,
		Usage:     t.usage,
	}
}
