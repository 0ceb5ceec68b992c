package catalog

import (
	"strings"

	"github.com/tbxark/formfill/patch"
	"github.com/tbxark/formfill/rules"
	"github.com/tbxark/formfill/types"
)

type Kind = types.Kind

const (
	KindString   = types.KindString
	KindBoolean  = types.KindBoolean
	KindInteger  = types.KindInteger
	KindFloat    = types.KindFloat
	KindEnum     = types.KindEnum
	KindDate     = types.KindDate
	KindTime     = types.KindTime
	KindDateTime = types.KindDateTime
	KindDuration = types.KindDuration
)

// Descriptor is the immutable metadata of one form field. For collections
// Kind is the element kind.
type Descriptor struct {
	Name        string
	Label       string
	Description string
	JSONName    string
	Kind        Kind
	Nullable    bool
	Collection  bool

	// Members are the enumeration member names, in declaration order.
	// JSONMembers are the same members as they appear in the form's JSON.
	Members     []string
	JSONMembers []any

	Rules     []rules.Rule
	ItemRules []rules.Rule
	Unique    rules.Rule

	Bits     int
	Unsigned bool
}

// Required reports whether a Required rule is attached.
func (d *Descriptor) Required() bool {
	for _, r := range d.Rules {
		if strings.EqualFold(r.Kind(), "Required") {
			return true
		}
	}
	return false
}

// Fits reports whether n can be stored in an integer field.
func (d *Descriptor) Fits(n int64) bool {
	if d.Kind != KindInteger {
		return true
	}
	return fits(n, d.Bits, d.Unsigned)
}

// Pointer is the RFC 6901 pointer of the field in the form's JSON.
func (d *Descriptor) Pointer() string {
	return "/" + patch.EscapePointer(d.JSONName)
}

// Context returns the validation context of the field within form.
func (d *Descriptor) Context(form any) rules.Context {
	return rules.Context{Form: form, Member: d.Name, Label: d.Label}
}

func (d *Descriptor) Info() types.FieldInfo {
	return types.FieldInfo{
		Name:        d.Name,
		JSONPointer: d.Pointer(),
		DisplayName: d.Label,
		Kind:        d.Kind,
		Collection:  d.Collection,
		Members:     d.Members,
		Description: d.Description,
		Required:    d.Required(),
	}
}
