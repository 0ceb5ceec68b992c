package rules

import (
	"errors"
	"time"
)

// Items applies its rules to every element of a collection and tags
// failures with the element index.
type Items struct {
	Rules []Rule
}

func NewItems(rs ...Rule) *Items {
	return &Items{Rules: rs}
}

func (*Items) Kind() string { return "ItemValidation" }

// Validate stops at the first failing element.
func (it *Items) Validate(value any, vc Context) error {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	for i, item := range items {
		if err := Check(item, vc.Item(i), it.Rules...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll reports the first failing rule of every failing element.
func (it *Items) ValidateAll(value any, vc Context) error {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var errs []error
	for i, item := range items {
		if err := Check(item, vc.Item(i), it.Rules...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unique fails on the first element equal to an earlier one.
type Unique struct{}

func (Unique) Kind() string { return "UniqueItems" }

func (Unique) Validate(value any, vc Context) error {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	seen := make(map[any]struct{}, len(items))
	for i, item := range items {
		key := uniqueKey(item)
		if _, dup := seen[key]; dup {
			return fail(vc.Item(i), "Duplicate value found in %s at index %d.", vc.Label, i)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func uniqueKey(item any) any {
	if t, ok := item.(time.Time); ok {
		return t.UnixNano()
	}
	return item
}
