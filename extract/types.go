package extract

import (
	"context"
	"slices"
	"strings"

	"github.com/tbxark/slotagent/types"
)

type Request struct {
	// Fields carries every field with its currently known value so the
	// oracle does not reconstruct settled answers.
	Fields    []types.Field
	Current   string
	Utterance string
}

type Extraction struct {
	Values map[string]string
	Usage  types.Usage
}

type Extractor interface {
	Extract(ctx context.Context, req *Request) (*Extraction, error)
}

// Sanitize keeps only trimmed, non-empty values for known, still
// unsatisfied fields, keyed by the schema spelling. An exact name match wins
// over case-insensitive variants; among variants the smallest key wins.
func Sanitize(fields []types.Field, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for i := range fields {
		f := &fields[i]
		if f.Satisfied() {
			continue
		}
		if value := lookup(f, values); value != "" {
			out[f.Name] = value
		}
	}
	return out
}

func lookup(f *types.Field, values map[string]string) string {
	if value := strings.TrimSpace(values[f.Name]); value != "" {
		return value
	}
	variants := make([]string, 0, 1)
	for name, value := range values {
		if name != f.Name && f.Matches(name) && strings.TrimSpace(value) != "" {
			variants = append(variants, name)
		}
	}
	if len(variants) == 0 {
		return ""
	}
	slices.Sort(variants)
	return strings.TrimSpace(values[variants[0]])
}
