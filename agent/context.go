package agent

import "context"

type stateKeyContext struct{}

const defaultStateKey = "default"

// WithStateKey sets the conversation key used for state storage.
func WithStateKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, stateKeyContext{}, key)
}

// StateKeyFromContext gets the conversation key from the context.
func StateKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(stateKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func stateKeyOrDefault(ctx context.Context) string {
	key, ok := StateKeyFromContext(ctx)
	if ok && key != "" {
		return key
	}
	return defaultStateKey
}
