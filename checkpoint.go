package formfill

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/tbxark/formfill/patch"
	"github.com/tbxark/formfill/types"
)

const checkpointVersion = "1.0"

// Checkpoint is a serializable snapshot of a form.
type Checkpoint[T any] struct {
	Version   string                  `json:"version"`
	FormState T                       `json:"form_state"`
	Timestamp time.Time               `json:"timestamp"`
	Changes   []patch.Operation       `json:"changes,omitempty"`
	Missing   []types.FieldInfo       `json:"missing,omitempty"`
	Issues    []types.ValidationError `json:"issues,omitempty"`
}

// CreateCheckpoint encodes the form, its change journal and its current
// validation state.
func (f *Form[T]) CreateCheckpoint() ([]byte, error) {
	checkpoint := Checkpoint[T]{
		Version:   checkpointVersion,
		FormState: *f.data,
		Timestamp: f.opts.clock.Now(),
		Changes:   f.journal.Ops(),
		Missing:   f.Missing(),
		Issues:    f.Validate(),
	}
	data, err := sonic.Marshal(checkpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	return data, nil
}

// RestoreCheckpoint replaces the form state and journal with those of a
// checkpoint created by CreateCheckpoint.
func (f *Form[T]) RestoreCheckpoint(data []byte) error {
	var checkpoint Checkpoint[T]
	if err := sonic.Unmarshal(data, &checkpoint); err != nil {
		return fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	if checkpoint.Version != checkpointVersion {
		return fmt.Errorf("incompatible checkpoint version: %s (expected %s)", checkpoint.Version, checkpointVersion)
	}
	*f.data = checkpoint.FormState
	f.journal = patch.Journal{}
	f.journal.Record(checkpoint.Changes...)
	return nil
}
