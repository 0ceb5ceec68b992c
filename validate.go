package formfill

import (
	"errors"

	"github.com/tbxark/formfill/rules"
	"github.com/tbxark/formfill/types"
)

// Validate checks every field of the form and reports all failures, in
// field declaration order. Collection elements are each checked against
// the item rules.
func (f *Form[T]) Validate() []types.ValidationError {
	var errs []error
	for _, fld := range f.catalog.Fields() {
		vc := fld.Context(f.data)
		value := fld.Value(f.data)
		if !fld.Collection && !fld.IsSet(f.data) {
			value = nil
		}
		checks := fld.Rules
		if fld.Collection {
			checks = append(checks[:len(checks):len(checks)], rules.NewItems(fld.ItemRules...))
			if fld.Unique != nil {
				checks = append(checks, fld.Unique)
			}
		}
		if err := rules.CheckAll(value, vc, checks...); err != nil {
			errs = append(errs, err)
		}
	}
	return types.Collect(errors.Join(errs...))
}

// Missing lists the required fields that are still unset.
func (f *Form[T]) Missing() []types.FieldInfo {
	var out []types.FieldInfo
	for _, fld := range f.catalog.Fields() {
		if fld.Required() && !fld.IsSet(f.data) {
			out = append(out, fld.Info())
		}
	}
	return out
}

// Complete reports whether no required field is missing and the form
// validates.
func (f *Form[T]) Complete() bool {
	return len(f.Missing()) == 0 && len(f.Validate()) == 0
}
