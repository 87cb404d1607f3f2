package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	rules := DefaultRules()
	cases := []struct {
		input string
		want  Intent
	}{
		{"yes", IntentAccept},
		{"  YES ", IntentAccept},
		{"ok thanks", IntentAccept},
		{"ＹＥＳ", IntentAccept},
		{"Ｎｏ", IntentReject},
		{"correct", IntentAccept},
		{"y", IntentAccept},
		{"no", IntentReject},
		{"No thanks", IntentReject},
		{"not correct", IntentReject},
		{"wrong", IntentReject},
		{"edit email", IntentReject},
		{"yesterday", IntentUnknown},
		{"nope", IntentUnknown},
		{"maybe", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rules.Classify(tc.input), tc.input)
	}
}

func TestClassifyCustomRules(t *testing.T) {
	t.Parallel()
	rules := append(Rules{{Marker: "是", Intent: IntentAccept}, {Marker: "不对", Intent: IntentReject}}, DefaultRules()...)
	assert.Equal(t, IntentAccept, rules.Classify("是"))
	assert.Equal(t, IntentReject, rules.Classify("不对"))
	assert.Equal(t, IntentAccept, rules.Classify("okay"))
}

func TestParseEdit(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input        string
		field, value string
		ok           bool
	}{
		{"email: new@example.com", "email", "new@example.com", true},
		{"phone 123 456", "phone", "123 456", true},
		{"  Name :  Jane Doe ", "Name", "Jane Doe", true},
		{"address: 1 Main St: Apt 2", "address", "1 Main St: Apt 2", true},
		{"email", "", "", false},
		{"email:", "", "", false},
		{": value", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		field, value, ok := ParseEdit(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.field, field, tc.input)
		assert.Equal(t, tc.value, value, tc.input)
	}
}
