package patch

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/bytedance/sonic"
)

// Diff returns the top-level operations that turn from into to. Members
// are visited in key order so the result is deterministic.
func Diff[T any](from, to T) ([]Operation, error) {
	fromMap, err := toMap(from)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initial state: %w", err)
	}
	toMapped, err := toMap(to)
	if err != nil {
		return nil, fmt.Errorf("failed to encode current state: %w", err)
	}

	keys := make([]string, 0, len(toMapped))
	for key := range toMapped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	patches := make([]Operation, 0)
	for _, key := range keys {
		path := "/" + EscapePointer(key)
		value := toMapped[key]
		previous, exists := fromMap[key]
		switch {
		case !exists:
			patches = append(patches, Operation{Op: OperationAdd, Path: path, Value: value})
		case !reflect.DeepEqual(previous, value):
			patches = append(patches, Operation{Op: OperationReplace, Path: path, Value: value})
		}
	}

	removed := make([]string, 0)
	for key := range fromMap {
		if _, ok := toMapped[key]; !ok {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		patches = append(patches, Operation{Op: OperationRemove, Path: "/" + EscapePointer(key)})
	}
	return patches, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
