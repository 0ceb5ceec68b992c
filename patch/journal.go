package patch

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Journal is an append-only log of the operations that turned an empty
// form into its current state. Values are stored in their JSON form so
// later mutations of the form do not leak into recorded operations.
type Journal struct {
	ops []Operation
}

func (j *Journal) Replace(path string, value any) error {
	return j.record(OperationReplace, path, value)
}

// Add records an add. A path ending in "/-" appends to an array.
func (j *Journal) Add(path string, value any) error {
	return j.record(OperationAdd, path, value)
}

func (j *Journal) Remove(path string) {
	j.ops = append(j.ops, Operation{Op: OperationRemove, Path: path})
}

// Record appends ops whose values are already JSON-shaped.
func (j *Journal) Record(ops ...Operation) {
	j.ops = append(j.ops, ops...)
}

func (j *Journal) record(op, path string, value any) error {
	encoded, err := Encode(value)
	if err != nil {
		return fmt.Errorf("journal %s %s: %w", op, path, err)
	}
	j.ops = append(j.ops, Operation{Op: op, Path: path, Value: encoded})
	return nil
}

// Ops returns a copy of the recorded operations.
func (j *Journal) Ops() []Operation {
	out := make([]Operation, len(j.ops))
	copy(out, j.ops)
	return out
}

func (j *Journal) Len() int {
	return len(j.ops)
}

// Encode converts v to its generic JSON form: maps, slices, strings,
// float64, bool and nil.
func Encode(v any) (any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
