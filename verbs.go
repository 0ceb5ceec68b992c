package formfill

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/tbxark/formfill/catalog"
	"github.com/tbxark/formfill/patch"
	"github.com/tbxark/formfill/rules"
	"github.com/tbxark/formfill/types"
)

func unknownField(action, name string) types.Outcome {
	return types.Failed(action, fmt.Sprintf("Unknown field %s", name))
}

func notCollection(action, name string) types.Outcome {
	return types.Failed(action, fmt.Sprintf("Field %s is not a collection.", name))
}

func invalid(action, raw string, d *catalog.Descriptor, err error) types.Outcome {
	errs := types.Collect(err)
	return types.Failed(action,
		fmt.Sprintf("%s is not valid for %s because: %s", strings.TrimSpace(raw), d.Label, types.JoinMessages(errs)),
		errs...)
}

func (f *Form[T]) logOutcome(field string, out types.Outcome) types.Outcome {
	f.logger.Debug("Form action", "field", field, "action", out.Action, "succeeded", out.Succeeded)
	return out
}

// current returns the value used as merge context: nil when unset.
func (f *Form[T]) current(fld *catalog.Field[T]) any {
	if !fld.IsSet(f.data) {
		return nil
	}
	return fld.Value(f.data)
}

// Assign resolves raw into the field's kind, validates it and stores it.
// On a collection field Assign adds every item raw denotes that is not
// already present; raw may be a single item or a JSON array of items.
func (f *Form[T]) Assign(field, raw string) types.Outcome {
	fld, ok := f.catalog.Lookup(field)
	if !ok {
		return f.logOutcome(field, unknownField(types.ActionAssign, field))
	}
	if fld.Collection {
		return f.logOutcome(fld.Name, f.assignItems(fld, raw))
	}

	vc := fld.Context(f.data)
	old := f.current(fld)
	value, err := f.resolve(&fld.Descriptor, raw, old, vc)
	if err == nil {
		err = rules.Check(value, vc, fld.Rules...)
	}
	if err != nil {
		return f.logOutcome(fld.Name, invalid(types.ActionAssign, raw, &fld.Descriptor, err))
	}

	if old != nil && strings.EqualFold(types.FormatValue(old), types.FormatValue(value)) {
		return f.logOutcome(fld.Name, types.Success(types.ActionAssign,
			fmt.Sprintf("%s is already %s", fld.Label, types.FormatValue(old)), old))
	}
	if err := f.store(fld, value); err != nil {
		return f.logOutcome(fld.Name, invalid(types.ActionAssign, raw, &fld.Descriptor, err))
	}

	description := fmt.Sprintf("Set %s to %s", fld.Label, types.FormatValue(value))
	if old != nil {
		description = fmt.Sprintf("Changed %s from %s to %s", fld.Label, types.FormatValue(old), types.FormatValue(value))
	}
	return f.logOutcome(fld.Name, types.Success(types.ActionAssign, description, value))
}

// store sets a scalar field. A value the field's Go type cannot hold is
// reported as a validation error; any other setter failure is a defect.
func (f *Form[T]) store(fld *catalog.Field[T], value any) error {
	if err := fld.Set(f.data, value); err != nil {
		if errors.Is(err, catalog.ErrOutOfRange) {
			return types.NewValidationError(fmt.Sprintf("The value %s does not fit %s.", types.FormatValue(value), fld.Label), fld.Name)
		}
		panic(err)
	}
	f.record(f.journal.Replace(fld.Pointer(), fld.Raw(f.data)), fld.Name)
	return nil
}

// splitItems reads raw as a JSON array of items when it is one, or as a
// single item otherwise.
func splitItems(raw string) []string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "[") {
		return []string{raw}
	}
	var decoded []any
	if err := sonic.UnmarshalString(text, &decoded); err != nil {
		return []string{raw}
	}
	items := make([]string, 0, len(decoded))
	for _, item := range decoded {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			items = append(items, v)
		case float64:
			items = append(items, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			items = append(items, fmt.Sprint(v))
		}
	}
	return items
}

func (f *Form[T]) assignItems(fld *catalog.Field[T], raw string) types.Outcome {
	vc := fld.Context(f.data)
	var (
		added []any
		errs  []types.ValidationError
	)
	for _, item := range splitItems(raw) {
		items := fld.Items(f.data)
		ivc := vc.Item(len(items))
		value, err := f.resolve(&fld.Descriptor, item, nil, ivc)
		if err == nil && contains(items, value) {
			continue
		}
		if err == nil {
			err = rules.Check(value, ivc, fld.ItemRules...)
		}
		if err == nil {
			err = f.appendItem(fld, items, value)
		}
		if err != nil {
			errs = append(errs, types.Collect(err)...)
			continue
		}
		added = append(added, value)
	}

	out := types.Success(types.ActionAssign, "", fld.Value(f.data))
	out.Errors = errs
	switch {
	case len(added) > 0:
		out.Description = fmt.Sprintf("Added %s to %s", types.FormatValue(added), fld.Label)
	case len(errs) > 0:
		out.Description = fmt.Sprintf("Nothing added to %s because: %s", fld.Label, types.JoinMessages(errs))
	default:
		out.Description = fmt.Sprintf("%s already contains %s", fld.Label, strings.TrimSpace(raw))
	}
	return out
}

// appendItem checks the collection-wide rules against the collection with
// value appended and stores it when they pass.
func (f *Form[T]) appendItem(fld *catalog.Field[T], items []any, value any) error {
	candidate := append(append(make([]any, 0, len(items)+1), items...), value)
	vc := fld.Context(f.data)
	if fld.Unique != nil {
		if err := fld.Unique.Validate(candidate, vc); err != nil {
			return err
		}
	}
	if err := rules.Check(candidate, vc, fld.Rules...); err != nil {
		return err
	}
	if err := fld.Append(f.data, value); err != nil {
		if errors.Is(err, catalog.ErrOutOfRange) {
			return types.NewValidationError(fmt.Sprintf("The value %s does not fit %s.", types.FormatValue(value), fld.Label), vc.Item(len(items)).Member)
		}
		panic(err)
	}
	f.record(f.journalAppend(fld), fld.Name)
	return nil
}

func (f *Form[T]) journalAppend(fld *catalog.Field[T]) error {
	encoded, err := patch.Encode(fld.Raw(f.data))
	if err != nil {
		return err
	}
	list, ok := encoded.([]any)
	if !ok || len(list) == 0 {
		return fmt.Errorf("field %s did not encode as a JSON array", fld.Name)
	}
	f.journal.Record(patch.Operation{Op: patch.OperationAdd, Path: fld.Pointer() + "/-", Value: list[len(list)-1]})
	return nil
}

// AddToCollection resolves raw against the element kind of a collection
// field and appends it once the item rules, the uniqueness rule and the
// collection rules pass.
func (f *Form[T]) AddToCollection(field, raw string) types.Outcome {
	fld, ok := f.catalog.Lookup(field)
	if !ok {
		return f.logOutcome(field, unknownField(types.ActionAdd, field))
	}
	if !fld.Collection {
		return f.logOutcome(fld.Name, notCollection(types.ActionAdd, fld.Name))
	}
	items := fld.Items(f.data)
	ivc := fld.Context(f.data).Item(len(items))
	value, err := f.resolve(&fld.Descriptor, raw, nil, ivc)
	if err == nil {
		err = rules.Check(value, ivc, fld.ItemRules...)
	}
	if err == nil {
		err = f.appendItem(fld, items, value)
	}
	if err != nil {
		return f.logOutcome(fld.Name, invalid(types.ActionAdd, raw, &fld.Descriptor, err))
	}
	return f.logOutcome(fld.Name, types.Success(types.ActionAdd,
		fmt.Sprintf("Added %s to %s", types.FormatValue(value), fld.Label), value))
}

// RemoveFromCollection removes the first element equal to raw. Removing a
// value that is not present succeeds and changes nothing.
func (f *Form[T]) RemoveFromCollection(field, raw string) types.Outcome {
	fld, ok := f.catalog.Lookup(field)
	if !ok {
		return f.logOutcome(field, unknownField(types.ActionRemove, field))
	}
	if !fld.Collection {
		return f.logOutcome(fld.Name, notCollection(types.ActionRemove, fld.Name))
	}
	text := strings.TrimSpace(raw)
	items := fld.Items(f.data)
	value, err := f.resolve(&fld.Descriptor, raw, nil, fld.Context(f.data).Item(len(items)))
	index := -1
	for i, item := range items {
		if (err == nil && sameValue(item, value)) || strings.EqualFold(types.FormatValue(item), text) {
			index = i
			break
		}
	}
	if index < 0 {
		return f.logOutcome(fld.Name, types.Success(types.ActionRemove,
			fmt.Sprintf("%s does not contain %s", fld.Label, text), nil))
	}
	removed := items[index]
	if err := fld.RemoveAt(f.data, index); err != nil {
		panic(err)
	}
	f.journal.Remove(fmt.Sprintf("%s/%d", fld.Pointer(), index))
	return f.logOutcome(fld.Name, types.Success(types.ActionRemove,
		fmt.Sprintf("Removed %s from %s", types.FormatValue(removed), fld.Label), removed))
}

// Clear empties a collection field or resets a scalar field to its unset
// value.
func (f *Form[T]) Clear(field string) types.Outcome {
	fld, ok := f.catalog.Lookup(field)
	if !ok {
		return f.logOutcome(field, unknownField(types.ActionClear, field))
	}
	fld.Clear(f.data)
	f.record(f.journal.Replace(fld.Pointer(), fld.Raw(f.data)), fld.Name)
	description := fmt.Sprintf("Cleared %s", fld.Label)
	if fld.Collection {
		description = fmt.Sprintf("Cleared values from %s", fld.Label)
	}
	return f.logOutcome(fld.Name, types.Success(types.ActionClear, description, nil))
}

// Get returns the current value of a field. Unlike the other verbs an
// unknown field is reported through the error, wrapping ErrUnknownField.
func (f *Form[T]) Get(field string) (types.Outcome, error) {
	fld, ok := f.catalog.Lookup(field)
	if !ok {
		return types.Outcome{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return f.logOutcome(fld.Name, types.Success(types.ActionGet,
		fmt.Sprintf("Fetched %s", fld.Label), fld.Value(f.data))), nil
}

// Reset returns every field of the form to its zero value.
func (f *Form[T]) Reset() types.Outcome {
	var zero T
	ops, err := patch.Diff(*f.data, zero)
	*f.data = zero
	if err != nil {
		f.record(err, "")
	} else {
		f.journal.Record(ops...)
	}
	return f.logOutcome("", types.Success(types.ActionReset, "Reset the form", nil))
}

func contains(items []any, value any) bool {
	for _, item := range items {
		if sameValue(item, value) {
			return true
		}
	}
	return false
}

// sameValue compares canonical values. Instants compare by time, not by
// location.
func sameValue(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}
