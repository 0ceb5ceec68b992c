package catalog

import "github.com/tbxark/formfill/rules"

type fieldOptions struct {
	label       string
	description string
	jsonName    string
	ruleSpecs   []string
	rules       []rules.Rule
	itemSpecs   []string
	itemRules   []rules.Rule
	unique      bool
}

type Option func(*fieldOptions)

// Label sets the display label used in messages. The default is the
// humanized field name.
func Label(label string) Option {
	return func(o *fieldOptions) {
		o.label = label
	}
}

func Description(description string) Option {
	return func(o *fieldOptions) {
		o.description = description
	}
}

// JSONName sets the key the field has in the form's JSON encoding. It must
// match the struct tag when the form type has one.
func JSONName(name string) Option {
	return func(o *fieldOptions) {
		o.jsonName = name
	}
}

// Rules attaches rules given as specs such as "Required" or "Range(0,100)".
// Specs are built with the catalog's rule registry.
func Rules(specs ...string) Option {
	return func(o *fieldOptions) {
		o.ruleSpecs = append(o.ruleSpecs, specs...)
	}
}

func WithRule(rs ...rules.Rule) Option {
	return func(o *fieldOptions) {
		o.rules = append(o.rules, rs...)
	}
}

// ItemRules attaches rules applied to every element of a collection.
func ItemRules(specs ...string) Option {
	return func(o *fieldOptions) {
		o.itemSpecs = append(o.itemSpecs, specs...)
	}
}

func WithItemRule(rs ...rules.Rule) Option {
	return func(o *fieldOptions) {
		o.itemRules = append(o.itemRules, rs...)
	}
}

// UniqueItems rejects collections holding the same value twice.
func UniqueItems() Option {
	return func(o *fieldOptions) {
		o.unique = true
	}
}
