// Package confirm interprets replies to the review prompt.
package confirm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

type Intent string

const (
	IntentAccept  Intent = "accept"
	IntentReject  Intent = "reject"
	IntentUnknown Intent = "unknown"
)

// Rule maps a marker to an intent. A marker matches the whole normalized
// reply, or its leading word(s) when followed by a space.
type Rule struct {
	Marker string
	Intent Intent
}

// Rules are checked in order; the first match wins.
type Rules []Rule

func DefaultRules() Rules {
	rules := Rules{}
	for _, m := range []string{"yes", "y", "ok", "okay", "confirm", "confirmed", "correct"} {
		rules = append(rules, Rule{Marker: m, Intent: IntentAccept})
	}
	for _, m := range []string{"no", "n", "change", "edit", "modify", "incorrect", "not correct", "wrong"} {
		rules = append(rules, Rule{Marker: m, Intent: IntentReject})
	}
	return rules
}

func (r Rules) Classify(input string) Intent {
	normalized := normalize(input)
	if normalized == "" {
		return IntentUnknown
	}
	for _, rule := range r {
		marker := normalize(rule.Marker)
		if marker == "" {
			continue
		}
		if normalized == marker || strings.HasPrefix(normalized, marker+" ") {
			return rule.Intent
		}
	}
	return IntentUnknown
}

// normalize folds case and full-width forms so "ＹＥＳ" reads as "yes".
func normalize(input string) string {
	return cases.Fold().String(width.Fold.String(strings.TrimSpace(input)))
}

// ParseEdit splits a direct edit such as "email: a@b.c" or "phone 123" into
// field name and value. A colon takes precedence over whitespace.
func ParseEdit(input string) (field, value string, ok bool) {
	input = strings.TrimSpace(input)
	if i := strings.Index(input, ":"); i >= 0 {
		field, value = strings.TrimSpace(input[:i]), strings.TrimSpace(input[i+1:])
	} else if parts := strings.Fields(input); len(parts) >= 2 {
		field = parts[0]
		value = strings.TrimSpace(strings.TrimPrefix(input, field))
	}
	if field == "" || value == "" {
		return "", "", false
	}
	return field, value, true
}
