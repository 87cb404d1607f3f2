package agent

import (
	"github.com/tbxark/slotagent/confirm"
	"github.com/tbxark/slotagent/understand"
)

type Option func(*Flow)

// WithIntentMatcher replaces the first-turn intent matcher. A nil matcher
// disables the override.
func WithIntentMatcher(matcher *understand.IntentMatcher) Option {
	return func(f *Flow) {
		f.intent = matcher
	}
}

func WithConfirmRules(rules confirm.Rules) Option {
	return func(f *Flow) {
		f.rules = rules
	}
}

func WithMessages(messages Messages) Option {
	return func(f *Flow) {
		f.messages = messages
	}
}
