// Package patch expresses dialogue state changes as RFC6902 operations.
package patch

const (
	OperationAdd     = "add"
	OperationReplace = "replace"
	OperationTest    = "test"
)

type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// FieldValuePaths are the only paths value updates may touch.
var FieldValuePaths = []string{"/fields/*/name", "/fields/*/value"}
