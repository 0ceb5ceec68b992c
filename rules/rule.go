// Package rules implements declarative validation rules for form fields
// and the registry that builds them from textual specs such as
// "Range(0,100)".
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbxark/formfill/types"
)

// Context describes the value being validated.
type Context struct {
	// Form is the form instance that owns the value.
	Form any
	// Member is the field name, or "field[i]" for a collection element.
	Member string
	// Label is the display label used in messages.
	Label string
}

// Item returns the context of the element at index i of a collection.
func (vc Context) Item(i int) Context {
	return Context{
		Form:   vc.Form,
		Member: fmt.Sprintf("%s[%d]", vc.Member, i),
		Label:  fmt.Sprintf("%s[%d]", vc.Label, i),
	}
}

// Rule validates one resolved value. Values are canonical: string, bool,
// int64, float64, civil.Date, civil.Time, time.Time, time.Duration, an
// enumeration member name, nil for an unset nullable field, or []any for a
// collection.
type Rule interface {
	Kind() string
	Validate(value any, vc Context) error
}

type accumulator interface {
	ValidateAll(value any, vc Context) error
}

// Check applies rs in order and returns the first failure.
func Check(value any, vc Context, rs ...Rule) error {
	for _, r := range rs {
		if err := r.Validate(value, vc); err != nil {
			return err
		}
	}
	return nil
}

// CheckAll applies every rule and joins all failures. Composite rules that
// can accumulate their own failures do so.
func CheckAll(value any, vc Context, rs ...Rule) error {
	var errs []error
	for _, r := range rs {
		var err error
		if acc, ok := r.(accumulator); ok {
			err = acc.ValidateAll(value, vc)
		} else {
			err = r.Validate(value, vc)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func fail(vc Context, format string, args ...any) error {
	return types.NewValidationError(fmt.Sprintf(format, args...), vc.Member)
}

type funcRule struct {
	kind string
	fn   func(value any, vc Context) error
}

func (f funcRule) Kind() string { return f.kind }

func (f funcRule) Validate(value any, vc Context) error { return f.fn(value, vc) }

// Func adapts a plain function into a Rule.
func Func(kind string, fn func(value any, vc Context) error) Rule {
	return funcRule{kind: kind, fn: fn}
}

type messageRule struct {
	Rule
	message string
}

func (m messageRule) Validate(value any, vc Context) error {
	if err := m.Rule.Validate(value, vc); err != nil {
		return types.NewValidationError(strings.ReplaceAll(m.message, "{0}", vc.Label), vc.Member)
	}
	return nil
}

// KindChecker is implemented by rules that only apply to values of some
// kinds. Catalogs call CheckKind once per field when they are built.
type KindChecker interface {
	CheckKind(kind types.Kind) error
}

// CheckKind reports the first rule of rs that cannot validate values of
// kind.
func CheckKind(kind types.Kind, rs ...Rule) error {
	for _, r := range rs {
		if m, ok := r.(messageRule); ok {
			r = m.Rule
		}
		kc, ok := r.(KindChecker)
		if !ok {
			continue
		}
		if err := kc.CheckKind(kind); err != nil {
			return fmt.Errorf("%s: %w", r.Kind(), err)
		}
	}
	return nil
}

// WithMessage replaces the failure message of r. "{0}" in message expands
// to the label.
func WithMessage(r Rule, message string) Rule {
	return messageRule{Rule: r, message: message}
}
