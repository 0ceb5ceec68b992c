// Package schema describes a form catalog as a JSON Schema, for prompt
// builders and for validating JSON snapshots of a form.
package schema

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tbxark/formfill/catalog"
	"github.com/tbxark/formfill/patch"
	"github.com/tbxark/formfill/rules"
)

const draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a raw schema map plus its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks a generic JSON value: maps, slices, strings, float64,
// bool and nil.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(data); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidateValue encodes v as JSON and validates the result.
func (s *Schema) ValidateValue(v any) error {
	data, err := patch.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	return s.Validate(data)
}

// ValidationError wraps a JSON Schema validation failure.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}
	schemaJSON, err := sonic.MarshalString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("form.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("form.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Schema{raw: raw, compiled: compiled}, nil
}

// ForCatalog builds the object schema of a form. Properties are keyed by
// JSON name; fields with a Required rule are listed as required.
func ForCatalog[T any](cat *catalog.Catalog[T], title string) map[string]any {
	props := make(map[string]any)
	var required []string
	for _, fld := range cat.Fields() {
		props[fld.JSONName] = Property(&fld.Descriptor)
		if fld.Required() {
			required = append(required, fld.JSONName)
		}
	}
	out := map[string]any{
		"$schema":    draft,
		"type":       "object",
		"properties": props,
	}
	if title != "" {
		out["title"] = title
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// CompileCatalog builds and compiles the schema of a catalog.
func CompileCatalog[T any](cat *catalog.Catalog[T], title string) (*Schema, error) {
	return Compile(ForCatalog(cat, title))
}

// Property returns the schema of one field.
func Property(d *catalog.Descriptor) map[string]any {
	var prop map[string]any
	if d.Collection {
		items := kindSchema(d)
		constrain(items, d.ItemRules)
		prop = map[string]any{
			"type":  []any{"array", "null"},
			"items": items,
		}
		if d.Unique != nil {
			prop["uniqueItems"] = true
		}
		for _, r := range d.Rules {
			switch rule := r.(type) {
			case rules.MinLength:
				prop["minItems"] = int(rule)
			case rules.MaxLength:
				prop["maxItems"] = int(rule)
			}
		}
	} else {
		prop = kindSchema(d)
		constrain(prop, d.Rules)
		if d.Nullable {
			prop = map[string]any{"anyOf": []any{prop, map[string]any{"type": "null"}}}
		}
	}
	prop["title"] = d.Label
	if d.Description != "" {
		prop["description"] = d.Description
	}
	return prop
}

func kindSchema(d *catalog.Descriptor) map[string]any {
	switch d.Kind {
	case catalog.KindString:
		return map[string]any{"type": "string"}
	case catalog.KindBoolean:
		return map[string]any{"type": "boolean"}
	case catalog.KindInteger:
		m := map[string]any{"type": "integer"}
		if d.Unsigned {
			m["minimum"] = 0
		}
		return m
	case catalog.KindFloat:
		return map[string]any{"type": "number"}
	case catalog.KindEnum:
		return map[string]any{"enum": append([]any(nil), d.JSONMembers...)}
	case catalog.KindDate:
		return map[string]any{"type": "string", "format": "date"}
	case catalog.KindTime:
		return map[string]any{"type": "string", "format": "time"}
	case catalog.KindDateTime:
		return map[string]any{"type": "string", "format": "date-time"}
	case catalog.KindDuration:
		// time.Duration encodes as integer nanoseconds.
		return map[string]any{"type": "integer", "$comment": "duration in nanoseconds"}
	}
	return map[string]any{}
}

// constrain copies the bounds of rules that have a JSON Schema equivalent.
func constrain(m map[string]any, rs []rules.Rule) {
	for _, r := range rs {
		switch rule := r.(type) {
		case *rules.Range:
			if lo, hi, ok := rule.Bounds(); ok && (m["type"] == "integer" || m["type"] == "number") {
				m["minimum"] = lo
				m["maximum"] = hi
			}
		case rules.MinLength:
			if m["type"] == "string" {
				m["minLength"] = int(rule)
			}
		case rules.MaxLength:
			if m["type"] == "string" {
				m["maxLength"] = int(rule)
			}
		case rules.StringLength:
			if m["type"] == "string" {
				if rule.Min > 0 {
					m["minLength"] = rule.Min
				}
				m["maxLength"] = rule.Max
			}
		case rules.AllowedValues:
			if _, isEnum := m["enum"]; !isEnum {
				m["enum"] = []any(rule)
			}
		}
	}
}
