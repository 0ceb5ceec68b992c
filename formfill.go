// Package formfill lets a tool-calling agent fill a typed form one field at
// a time. Raw text values are recognized into the field's kind, merged with
// the previous value when they are partial dates or times, validated by the
// field's declarative rules and stored on the form. Every verb reports an
// Outcome; ordinary bad input never surfaces as an error.
package formfill

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tbxark/formfill/catalog"
	"github.com/tbxark/formfill/patch"
)

var (
	// ErrUnknownField is returned by Get for a name that matches no field.
	ErrUnknownField = errors.New("formfill: unknown field")
	// ErrUnsupportedKind signals a field kind the resolver cannot handle.
	// It indicates a catalog defect and is raised as a panic.
	ErrUnsupportedKind = errors.New("formfill: unsupported field kind")

	ErrNilCatalog = errors.New("formfill: catalog is required")
)

// Form binds a form instance to its catalog. Verbs must not be called
// concurrently on the same Form.
type Form[T any] struct {
	data    *T
	catalog *catalog.Catalog[T]
	journal patch.Journal
	opts    formOptions
	logger  *slog.Logger
}

// New creates a form holding a zero T. It panics if cat is nil.
func New[T any](cat *catalog.Catalog[T], opts ...Option) *Form[T] {
	f, err := Wrap(cat, new(T), opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Wrap adopts an existing form instance. Fields already set on data are
// recorded in the change journal as the initial state.
func Wrap[T any](cat *catalog.Catalog[T], data *T, opts ...Option) (*Form[T], error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	if data == nil {
		data = new(T)
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	f := &Form[T]{
		data:    data,
		catalog: cat,
		opts:    o,
		logger:  logger,
	}

	var zero T
	initial, err := patch.Diff(zero, *data)
	if err != nil {
		return nil, fmt.Errorf("formfill: record initial state: %w", err)
	}
	f.journal.Record(initial...)
	return f, nil
}

// Data returns the form instance. Verbs mutate it in place.
func (f *Form[T]) Data() *T {
	return f.data
}

func (f *Form[T]) Catalog() *catalog.Catalog[T] {
	return f.catalog
}

// Changes returns the RFC 6902 operations that turn a zero T into the
// current form.
func (f *Form[T]) Changes() []patch.Operation {
	return f.journal.Ops()
}

func (f *Form[T]) record(err error, field string) {
	if err != nil {
		f.logger.Warn("Failed to journal change", "field", field, "error", err)
	}
}
