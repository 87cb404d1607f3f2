package patch

import (
	"fmt"

	"github.com/tbxark/slotagent/types"
)

// FieldUpdates turns staged values into operations in schema order. Each
// write is guarded by a test on the field name so a stale index fails
// instead of writing into the wrong field. Unknown names are ignored.
func FieldUpdates(fields []types.Field, updates map[string]string) []Operation {
	ops := make([]Operation, 0, len(updates)*2)
	for i, f := range fields {
		value, ok := updates[f.Name]
		if !ok || value == "" {
			continue
		}
		ops = append(ops,
			Operation{Op: OperationTest, Path: fmt.Sprintf("/fields/%d/name", i), Value: f.Name},
			Operation{Op: OperationReplace, Path: fmt.Sprintf("/fields/%d/value", i), Value: value},
		)
	}
	return ops
}
