package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is the information schema document: {"fields": [...]}.
type Schema struct {
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// ParseSchema decodes a schema document. YAML is a superset of JSON, so both
// encodings are accepted.
func ParseSchema(data []byte) ([]FieldSpec, error) {
	var doc Schema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := ValidateSchema(doc.Fields); err != nil {
		return nil, err
	}
	return doc.Fields, nil
}

func ValidateSchema(specs []FieldSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidSchema)
	}
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		name := strings.ToLower(strings.TrimSpace(spec.Name))
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidSchema, i)
		}
		if strings.TrimSpace(spec.Question) == "" {
			return fmt.Errorf("%w: field %q has no question", ErrInvalidSchema, spec.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, spec.Name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
