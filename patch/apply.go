package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyRFC6902 applies ops to the JSON encoding of current and decodes the
// result back into a T.
func ApplyRFC6902[T any](current T, ops []Operation) (T, error) {
	var zero T

	if len(ops) == 0 {
		return current, nil
	}

	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal current state: %w", err)
	}

	// ops are fixed one at a time against the document they apply to
	for i, op := range ops {
		fixed := FixOperation(currentJSON, []Operation{op})
		if len(fixed) == 0 {
			continue
		}

		patchJSON, err := sonic.Marshal(fixed)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal patch operation %d: %w", i, err)
		}

		patch, err := jsonpatch.DecodePatch(patchJSON)
		if err != nil {
			return zero, fmt.Errorf("failed to decode patch operation %d: %w", i, err)
		}

		currentJSON, err = patch.Apply(currentJSON)
		if err != nil {
			return zero, fmt.Errorf("failed to apply patch operation %d: %w", i, err)
		}
	}

	var result T
	if err := sonic.Unmarshal(currentJSON, &result); err != nil {
		return zero, fmt.Errorf("type mismatch: patch would result in invalid type T: %w", err)
	}

	return result, nil
}

// FixOperation rewrites ops that a strict RFC 6902 implementation would
// reject against currentJSON: a replace of a missing member becomes an add,
// a remove of a missing member is dropped, and an append ("/-") to a null
// array creates the array.
func FixOperation(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := sonic.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OperationReplace:
			if !pathExists(doc, op.Path) {
				op.Op = OperationAdd
			}
			fixed = append(fixed, op)
		case OperationRemove:
			if pathExists(doc, op.Path) {
				fixed = append(fixed, op)
			}
		case OperationAdd:
			if parent, ok := strings.CutSuffix(op.Path, "/-"); ok && !isArray(lookup(doc, parent)) {
				op = Operation{Op: OperationAdd, Path: parent, Value: []any{op.Value}}
			}
			fixed = append(fixed, op)
		default:
			fixed = append(fixed, op)
		}
	}

	return fixed
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func pathExists(doc any, path string) bool {
	_, ok := resolve(doc, path)
	return ok
}

func lookup(doc any, path string) any {
	v, _ := resolve(doc, path)
	return v
}

func resolve(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	cur := doc
	for _, token := range strings.Split(path[1:], "/") {
		token = unescapePointer(token)
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return nil, false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			cur = node[index]
		default:
			return nil, false
		}
	}

	return cur, true
}
