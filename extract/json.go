package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/slotagent/structured"
	"github.com/tbxark/slotagent/types"
)

// DefaultJSONSystemPromptTemplate asks for a bare JSON object. The template
// takes the refusal sentinel twice.
const DefaultJSONSystemPromptTemplate = `You extract answers from a user's reply in an information collection dialogue and return them as a JSON object.

Rules:
1. Look for answers to every listed question, not only the one currently asked.
2. Infer answers from context when the reply makes them clear. Omit fields you cannot extract.
3. Never change a field that already has a currentValue.
4. Use "%s" only when the user clearly refuses that specific field. A bare "no" applies at most to the field currently asked.
5. Reply in the language of the user's input.

Return only JSON keyed by field name, for example:
{"name": "John Doe", "email": "part1@provider.tld", "contact": "%s"}`

// JSONExtractor reads a JSON object reply, for models without tool calling.
type JSONExtractor struct {
	chain *structured.TextChain[*Request]
}

func NewJSONExtractor(chatModel model.BaseChatModel, opts ...Option) *JSONExtractor {
	options := newOptions(DefaultJSONSystemPromptTemplate, opts...)
	systemPrompt := options.systemPromptTemplate
	if strings.Count(systemPrompt, "%s") == 2 {
		systemPrompt = fmt.Sprintf(systemPrompt, types.RefusedValue, types.RefusedValue)
	}
	return &JSONExtractor{
		chain: structured.NewTextChain(chatModel, options.promptBuilder(systemPrompt)),
	}
}

func (e *JSONExtractor) Extract(ctx context.Context, req *Request) (*Extraction, error) {
	content, usage, err := e.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}
	values, err := ParseJSONObject(content)
	if err != nil {
		return nil, &structured.UsageError{Usage: usage, Err: fmt.Errorf("%w: %w", structured.ErrMalformedOutput, err)}
	}
	return &Extraction{Values: values, Usage: usage}, nil
}

// ParseJSONObject decodes the first JSON object found in content, tolerating
// markdown fences and surrounding prose. Scalar values are stringified and
// nulls dropped. A reply without any object yields an empty map.
func ParseJSONObject(content string) (map[string]string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return map[string]string{}, nil
	}
	var raw map[string]any
	if err := sonic.UnmarshalString(content[start:end+1], &raw); err != nil {
		return nil, fmt.Errorf("decode extraction json: %w", err)
	}
	values := make(map[string]string, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			values[name] = strings.TrimSpace(val)
		case float64:
			values[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			values[name] = strconv.FormatBool(val)
		default:
			encoded, err := sonic.MarshalString(val)
			if err == nil {
				values[name] = encoded
			}
		}
	}
	return values, nil
}
