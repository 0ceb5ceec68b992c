// Package patch records form changes as RFC 6902 JSON Patch operations and
// replays them onto a form value.
package patch

import "strings"

const (
	OperationAdd     = "add"
	OperationRemove  = "remove"
	OperationReplace = "replace"
)

type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapePointer escapes one RFC 6901 reference token.
func EscapePointer(token string) string {
	return pointerEscaper.Replace(token)
}

func unescapePointer(token string) string {
	return pointerUnescaper.Replace(token)
}
