package formfill

import (
	"fmt"

	"github.com/tbxark/formfill/patch"
)

// AllowedPaths returns the JSON pointers a patch may touch: every field,
// plus the element paths of collection fields.
func (f *Form[T]) AllowedPaths() map[string]bool {
	allowed := make(map[string]bool)
	for _, fld := range f.catalog.Fields() {
		allowed[fld.Pointer()] = true
		if fld.Collection {
			allowed[fld.Pointer()+"/-"] = true
		}
	}
	return allowed
}

// Apply applies RFC 6902 operations directly to the form, bypassing value
// recognition. Operations outside AllowedPaths are rejected as a whole.
// Field rules are not run; call Validate afterwards.
func (f *Form[T]) Apply(ops []patch.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	if err := patch.ValidatePatchOperations(ops, f.AllowedPaths()); err != nil {
		return fmt.Errorf("formfill: %w", err)
	}
	f.logger.Debug("Applying patch", "ops", len(ops))
	next, err := patch.ApplyRFC6902(*f.data, ops)
	if err != nil {
		return fmt.Errorf("formfill: apply patch: %w", err)
	}
	*f.data = next
	f.journal.Record(ops...)
	return nil
}
