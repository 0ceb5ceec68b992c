package catalog

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/tbxark/formfill/match"
	"github.com/tbxark/formfill/rules"
)

var ErrNotCollection = errors.New("catalog: field is not a collection")

// Field is a descriptor plus the accessors that read and write the field
// on a form of type T. Values crossing this boundary are canonical: see
// rules.Rule.
type Field[T any] struct {
	Descriptor

	get      func(*T) any
	isSet    func(*T) bool
	set      func(*T, any) error
	clear    func(*T)
	raw      func(*T) any
	add      func(*T, any) error
	removeAt func(*T, int)
}

// Value returns the canonical value of the field: nil for an unset
// nullable field, []any for a collection.
func (f *Field[T]) Value(form *T) any {
	return f.get(form)
}

// IsSet reports whether the field holds a value. The zero value of a
// non-nullable field and an empty collection count as unset.
func (f *Field[T]) IsSet(form *T) bool {
	return f.isSet(form)
}

// Set stores a canonical value. nil clears the field.
func (f *Field[T]) Set(form *T, v any) error {
	if v == nil {
		f.clear(form)
		return nil
	}
	if err := f.set(form, v); err != nil {
		return fmt.Errorf("catalog: set %s: %w", f.Name, err)
	}
	return nil
}

func (f *Field[T]) Clear(form *T) {
	f.clear(form)
}

// Raw returns the field as its Go type, for JSON encoding.
func (f *Field[T]) Raw(form *T) any {
	return f.raw(form)
}

// Items returns the elements of a collection field.
func (f *Field[T]) Items(form *T) []any {
	if !f.Collection {
		return nil
	}
	items, _ := f.get(form).([]any)
	return items
}

// Append adds one canonical element to a collection field.
func (f *Field[T]) Append(form *T, v any) error {
	if !f.Collection {
		return fmt.Errorf("%w: %s", ErrNotCollection, f.Name)
	}
	if err := f.add(form, v); err != nil {
		return fmt.Errorf("catalog: append %s: %w", f.Name, err)
	}
	return nil
}

// RemoveAt removes the element at index i of a collection field.
func (f *Field[T]) RemoveAt(form *T, i int) error {
	if !f.Collection {
		return fmt.Errorf("%w: %s", ErrNotCollection, f.Name)
	}
	if i < 0 || i >= len(f.Items(form)) {
		return fmt.Errorf("catalog: remove %s[%d]: %w", f.Name, i, ErrOutOfRange)
	}
	f.removeAt(form, i)
	return nil
}

// Def declares one field of a form of type T.
type Def[T any] func(reg *rules.Registry) (*Field[T], error)

// Scalar declares a non-nullable field.
func Scalar[T any, V any](name string, field func(*T) *V, opts ...Option) Def[T] {
	return func(reg *rules.Registry) (*Field[T], error) {
		c, err := codecFor[V]()
		if err != nil {
			return nil, fmt.Errorf("catalog: field %s: %w", name, err)
		}
		return scalarField(name, field, c, opts, reg)
	}
}

// Optional declares a nullable field held through a pointer.
func Optional[T any, V any](name string, field func(*T) **V, opts ...Option) Def[T] {
	return func(reg *rules.Registry) (*Field[T], error) {
		c, err := codecFor[V]()
		if err != nil {
			return nil, fmt.Errorf("catalog: field %s: %w", name, err)
		}
		return optionalField(name, field, c, opts, reg)
	}
}

// List declares an ordered collection field.
func List[T any, V any](name string, field func(*T) *[]V, opts ...Option) Def[T] {
	return func(reg *rules.Registry) (*Field[T], error) {
		c, err := codecFor[V]()
		if err != nil {
			return nil, fmt.Errorf("catalog: field %s: %w", name, err)
		}
		return listField(name, field, c, opts, reg)
	}
}

func Enum[T any, V comparable](name string, field func(*T) *V, members []EnumMember[V], opts ...Option) Def[T] {
	return func(reg *rules.Registry) (*Field[T], error) {
		f, err := scalarField(name, field, enumCodec(members), opts, reg)
		if err != nil {
			return nil, err
		}
		return withMembers(f, members)
	}
}

func OptionalEnum[T any, V comparable](name string, field func(*T) **V, members []EnumMember[V], opts ...Option) Def[T] {
	return func(reg *rules.Registry) (*Field[T], error) {
		f, err := optionalField(name, field, enumCodec(members), opts, reg)
		if err != nil {
			return nil, err
		}
		return withMembers(f, members)
	}
}

func EnumList[T any, V comparable](name string, field func(*T) *[]V, members []EnumMember[V], opts ...Option) Def[T] {
	return func(reg *rules.Registry) (*Field[T], error) {
		f, err := listField(name, field, enumCodec(members), opts, reg)
		if err != nil {
			return nil, err
		}
		return withMembers(f, members)
	}
}

func withMembers[T any, V comparable](f *Field[T], members []EnumMember[V]) (*Field[T], error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("catalog: field %s: enumeration has no members", f.Name)
	}
	for _, m := range members {
		raw, err := sonic.Marshal(m.Value)
		if err != nil {
			return nil, fmt.Errorf("catalog: field %s: encode member %s: %w", f.Name, m.Name, err)
		}
		var v any
		if err := sonic.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("catalog: field %s: decode member %s: %w", f.Name, m.Name, err)
		}
		f.Members = append(f.Members, m.Name)
		f.JSONMembers = append(f.JSONMembers, v)
	}
	return f, nil
}

func descriptor[V any](name string, c codec[V], opts []Option, reg *rules.Registry) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, errors.New("catalog: field name is required")
	}
	var o fieldOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	d := Descriptor{
		Name:        name,
		Label:       o.label,
		Description: o.description,
		JSONName:    o.jsonName,
		Kind:        c.kind,
		Bits:        c.bits,
		Unsigned:    c.unsigned,
	}
	if d.Label == "" {
		d.Label = match.Humanize(name)
	}
	if d.JSONName == "" {
		d.JSONName = name
	}

	built, err := reg.BuildAll(o.ruleSpecs...)
	if err != nil {
		return Descriptor{}, fmt.Errorf("catalog: field %s: %w", name, err)
	}
	d.Rules = append(built, o.rules...)

	items, err := reg.BuildAll(o.itemSpecs...)
	if err != nil {
		return Descriptor{}, fmt.Errorf("catalog: field %s: %w", name, err)
	}
	d.ItemRules = append(items, o.itemRules...)
	if o.unique {
		d.Unique = rules.Unique{}
	}
	return d, nil
}

func scalarDescriptor[V any](name string, c codec[V], opts []Option, reg *rules.Registry) (Descriptor, error) {
	d, err := descriptor(name, c, opts, reg)
	if err != nil {
		return d, err
	}
	if len(d.ItemRules) > 0 || d.Unique != nil {
		return d, fmt.Errorf("catalog: field %s: item rules need a collection", name)
	}
	if err := rules.CheckKind(d.Kind, d.Rules...); err != nil {
		return d, fmt.Errorf("catalog: field %s: %w", name, err)
	}
	return d, nil
}

func scalarField[T any, V any](name string, field func(*T) *V, c codec[V], opts []Option, reg *rules.Registry) (*Field[T], error) {
	d, err := scalarDescriptor(name, c, opts, reg)
	if err != nil {
		return nil, err
	}
	// the form is journaled, patched and checkpointed as JSON
	if err := zeroRoundTrips[V](); err != nil {
		return nil, fmt.Errorf("%w: field %s (%T), declare it with Optional: %v", ErrZeroNotEncoded, name, *new(V), err)
	}
	var zero V
	unset := c.to(zero)
	return &Field[T]{
		Descriptor: d,
		get:        func(t *T) any { return c.to(*field(t)) },
		isSet:      func(t *T) bool { return c.to(*field(t)) != unset },
		set: func(t *T, x any) error {
			v, err := c.from(x)
			if err != nil {
				return err
			}
			*field(t) = v
			return nil
		},
		clear: func(t *T) { *field(t) = zero },
		raw:   func(t *T) any { return *field(t) },
	}, nil
}

func optionalField[T any, V any](name string, field func(*T) **V, c codec[V], opts []Option, reg *rules.Registry) (*Field[T], error) {
	d, err := scalarDescriptor(name, c, opts, reg)
	if err != nil {
		return nil, err
	}
	d.Nullable = true
	return &Field[T]{
		Descriptor: d,
		get: func(t *T) any {
			p := *field(t)
			if p == nil {
				return nil
			}
			return c.to(*p)
		},
		isSet: func(t *T) bool { return *field(t) != nil },
		set: func(t *T, x any) error {
			v, err := c.from(x)
			if err != nil {
				return err
			}
			*field(t) = &v
			return nil
		},
		clear: func(t *T) { *field(t) = nil },
		raw:   func(t *T) any { return *field(t) },
	}, nil
}

func listField[T any, V any](name string, field func(*T) *[]V, c codec[V], opts []Option, reg *rules.Registry) (*Field[T], error) {
	d, err := descriptor(name, c, opts, reg)
	if err != nil {
		return nil, err
	}
	if err := rules.CheckKind(d.Kind, d.ItemRules...); err != nil {
		return nil, fmt.Errorf("catalog: field %s: item %w", name, err)
	}
	d.Collection = true
	decode := func(x any) ([]V, error) {
		items, ok := x.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %T for a list of %s", ErrValueType, x, c.kind)
		}
		out := make([]V, 0, len(items))
		for _, item := range items {
			v, err := c.from(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return &Field[T]{
		Descriptor: d,
		get: func(t *T) any {
			s := *field(t)
			out := make([]any, len(s))
			for i, v := range s {
				out[i] = c.to(v)
			}
			return out
		},
		isSet: func(t *T) bool { return len(*field(t)) > 0 },
		set: func(t *T, x any) error {
			s, err := decode(x)
			if err != nil {
				return err
			}
			*field(t) = s
			return nil
		},
		clear: func(t *T) { *field(t) = []V{} },
		raw:   func(t *T) any { return *field(t) },
		add: func(t *T, x any) error {
			v, err := c.from(x)
			if err != nil {
				return err
			}
			*field(t) = append(*field(t), v)
			return nil
		},
		removeAt: func(t *T, i int) {
			s := *field(t)
			out := make([]V, 0, len(s)-1)
			out = append(out, s[:i]...)
			*field(t) = append(out, s[i+1:]...)
		},
	}, nil
}
