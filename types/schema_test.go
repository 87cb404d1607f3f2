package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchemaJSON(t *testing.T) {
	t.Parallel()
	doc := `{"fields": [{"name": "name", "question": "What is your name?"}, {"name": "phone", "question": "What is your contact number?", "required": false}]}`
	specs, err := ParseSchema([]byte(doc))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Nil(t, specs[0].Required)
	require.NotNil(t, specs[1].Required)
	assert.False(t, *specs[1].Required)
}

func TestParseSchemaYAML(t *testing.T) {
	t.Parallel()
	doc := `
fields:
  - name: name
    question: What is your name?
  - name: email
    question: What is your email?
`
	specs, err := ParseSchema([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "email", specs[1].Name)
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{`{"fields": [}`, `{"fields": []}`, `fields: [{name: a}]`} {
		_, err := ParseSchema([]byte(doc))
		assert.True(t, errors.Is(err, ErrInvalidSchema), "doc %q: %v", doc, err)
	}
}
