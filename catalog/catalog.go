// Package catalog describes the fields of a form type: their kinds, labels,
// validation rules and the accessors that read and write them. A catalog is
// built once per form type and is immutable afterwards.
package catalog

import (
	"fmt"
	"strings"

	"github.com/tbxark/formfill/match"
	"github.com/tbxark/formfill/rules"
	"github.com/tbxark/formfill/types"
)

type Catalog[T any] struct {
	fields []*Field[T]
	index  map[string][]*Field[T]
}

// New builds a catalog with the default rule registry.
func New[T any](defs ...Def[T]) (*Catalog[T], error) {
	return NewWithRegistry(rules.Default(), defs...)
}

// MustNew panics when the catalog cannot be built. Useful for package-level
// catalogs.
func MustNew[T any](defs ...Def[T]) *Catalog[T] {
	c, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewWithRegistry builds a catalog whose rule specs are resolved by reg.
func NewWithRegistry[T any](reg *rules.Registry, defs ...Def[T]) (*Catalog[T], error) {
	if reg == nil {
		reg = rules.Default()
	}
	c := &Catalog[T]{index: make(map[string][]*Field[T])}
	names := make(map[string]string)
	jsonNames := make(map[string]string)
	for _, def := range defs {
		if def == nil {
			continue
		}
		f, err := def(reg)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(f.Name)
		if prev, ok := names[key]; ok {
			return nil, fmt.Errorf("catalog: field %s duplicates %s", f.Name, prev)
		}
		names[key] = f.Name
		if prev, ok := jsonNames[f.JSONName]; ok {
			return nil, fmt.Errorf("catalog: field %s reuses JSON name %q of %s", f.Name, f.JSONName, prev)
		}
		jsonNames[f.JSONName] = f.Name

		c.fields = append(c.fields, f)
		for _, k := range lookupKeys(f.Name, f.JSONName) {
			c.add(k, f)
		}
	}
	return c, nil
}

func lookupKeys(names ...string) []string {
	var keys []string
	for _, name := range names {
		keys = append(keys, strings.ToLower(strings.TrimSpace(name)), match.Normalize(name))
	}
	return keys
}

func (c *Catalog[T]) add(key string, f *Field[T]) {
	for _, existing := range c.index[key] {
		if existing == f {
			return
		}
	}
	c.index[key] = append(c.index[key], f)
}

// Lookup finds a field by name, ignoring case. The JSON name and the
// spaced form of the name ("phone number") are accepted too. A name that
// matches more than one field is not found.
func (c *Catalog[T]) Lookup(name string) (*Field[T], bool) {
	for _, key := range []string{strings.ToLower(strings.TrimSpace(name)), match.Normalize(name)} {
		if key == "" {
			continue
		}
		switch found := c.index[key]; len(found) {
		case 0:
			continue
		case 1:
			return found[0], true
		default:
			return nil, false
		}
	}
	return nil, false
}

// Fields returns the fields in declaration order.
func (c *Catalog[T]) Fields() []*Field[T] {
	out := make([]*Field[T], len(c.fields))
	copy(out, c.fields)
	return out
}

func (c *Catalog[T]) Info() []types.FieldInfo {
	out := make([]types.FieldInfo, 0, len(c.fields))
	for _, f := range c.fields {
		out = append(out, f.Info())
	}
	return out
}
