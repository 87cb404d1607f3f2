package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tbxark/slotagent/types"
)

// Apply returns a copy of state with ops applied. The input is not modified.
func Apply(state *types.DialogueState, ops []Operation) (*types.DialogueState, error) {
	if len(ops) == 0 {
		return state.Clone(), nil
	}
	if err := ValidatePaths(ops, FieldValuePaths); err != nil {
		return nil, err
	}

	currentJSON, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current state: %w", err)
	}

	ops = FixOperation(currentJSON, ops)

	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch operations: %w", err)
	}

	p, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode patch: %w", err)
	}

	modifiedJSON, err := p.Apply(currentJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to apply patch: %w", err)
	}

	var result types.DialogueState
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return nil, fmt.Errorf("patched state is invalid: %w", err)
	}
	return &result, nil
}

// FixOperation downgrades replace to add when the target is absent, which is
// the case for a value that was never collected.
func FixOperation(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := sonic.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if op.Op == OperationReplace && !pathExists(doc, op.Path) {
			op.Op = OperationAdd
		}
		fixed = append(fixed, op)
	}
	return fixed
}

func pathExists(doc any, path string) bool {
	if path == "" {
		return true
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}

	cur := doc
	for _, token := range strings.Split(path[1:], "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return false
			}
			cur = node[index]
		default:
			return false
		}
	}
	return true
}
