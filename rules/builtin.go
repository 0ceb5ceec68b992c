package rules

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tbxark/formfill/types"
)

func registerBuiltins(r *Registry) {
	r.MustRegister("Required", func(args ...any) (Rule, error) {
		if err := argCount(args, 0, 0); err != nil {
			return nil, err
		}
		return Required{}, nil
	})
	r.MustRegister("Range", func(args ...any) (Rule, error) {
		if err := argCount(args, 2, 2); err != nil {
			return nil, err
		}
		return NewRange(args[0], args[1])
	})
	r.MustRegister("MinLength", func(args ...any) (Rule, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return MinLength(n), nil
	})
	r.MustRegister("MaxLength", func(args ...any) (Rule, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return MaxLength(n), nil
	})
	r.MustRegister("StringLength", func(args ...any) (Rule, error) {
		if err := argCount(args, 1, 2); err != nil {
			return nil, err
		}
		maxLen, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		minLen := 0
		if len(args) == 2 {
			if minLen, err = intArg(args, 1); err != nil {
				return nil, err
			}
		}
		return StringLength{Min: minLen, Max: maxLen}, nil
	})
	r.MustRegister("RegularExpression", func(args ...any) (Rule, error) {
		if err := argCount(args, 1, 1); err != nil {
			return nil, err
		}
		pattern, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("pattern must be a string, got %T", args[0])
		}
		return NewRegularExpression(pattern)
	})
	r.MustRegister("Phone", func(args ...any) (Rule, error) {
		return Phone{}, argCount(args, 0, 0)
	})
	r.MustRegister("EmailAddress", func(args ...any) (Rule, error) {
		return EmailAddress{}, argCount(args, 0, 0)
	})
	r.MustRegister("Url", func(args ...any) (Rule, error) {
		return URL{}, argCount(args, 0, 0)
	})
	r.MustRegister("AllowedValues", func(args ...any) (Rule, error) {
		if len(args) == 0 {
			return nil, errors.New("at least one value is required")
		}
		return AllowedValues(args), nil
	})
	r.MustRegister("DeniedValues", func(args ...any) (Rule, error) {
		if len(args) == 0 {
			return nil, errors.New("at least one value is required")
		}
		return DeniedValues(args), nil
	})
	r.MustRegister("UniqueItems", func(args ...any) (Rule, error) {
		return Unique{}, argCount(args, 0, 0)
	})
	r.MustRegister("ItemValidation", func(args ...any) (Rule, error) {
		if len(args) == 0 {
			return nil, errors.New("at least one item rule is required")
		}
		items := &Items{}
		for _, arg := range args {
			spec, ok := arg.(string)
			if !ok {
				return nil, fmt.Errorf("item rule must be a spec string, got %T", arg)
			}
			rule, err := r.Build(spec)
			if err != nil {
				return nil, err
			}
			items.Rules = append(items.Rules, rule)
		}
		return items, nil
	})
}

func argCount(args []any, minArgs, maxArgs int) error {
	if len(args) < minArgs || len(args) > maxArgs {
		if minArgs == maxArgs {
			return fmt.Errorf("expected %d arguments, got %d", minArgs, len(args))
		}
		return fmt.Errorf("expected %d to %d arguments, got %d", minArgs, maxArgs, len(args))
	}
	return nil
}

func intArg(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i+1)
	}
	n, ok := args[i].(int)
	if !ok || n < 0 {
		return 0, fmt.Errorf("argument %d must be a non-negative integer, got %v", i+1, args[i])
	}
	return n, nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

func length(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	}
	return 0, false
}

// Required fails on nil, blank strings and empty collections.
type Required struct{}

func (Required) Kind() string { return "Required" }

func (Required) Validate(value any, vc Context) error {
	if isEmpty(value) {
		return fail(vc, "The %s field is required.", vc.Label)
	}
	return nil
}

// MinLength bounds the length of a string or a collection from below.
type MinLength int

func (MinLength) Kind() string { return "MinLength" }

func (m MinLength) Validate(value any, vc Context) error {
	if n, ok := length(value); ok && n < int(m) {
		return fail(vc, "The field %s must be a string or array type with a minimum length of '%d'.", vc.Label, int(m))
	}
	return nil
}

// MaxLength bounds the length of a string or a collection from above.
type MaxLength int

func (MaxLength) Kind() string { return "MaxLength" }

func (m MaxLength) Validate(value any, vc Context) error {
	if n, ok := length(value); ok && n > int(m) {
		return fail(vc, "The field %s must be a string or array type with a maximum length of '%d'.", vc.Label, int(m))
	}
	return nil
}

// StringLength bounds the length of a string.
type StringLength struct {
	Min int
	Max int
}

func (StringLength) Kind() string { return "StringLength" }

func (s StringLength) Validate(value any, vc Context) error {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	n := utf8.RuneCountInString(str)
	if n <= s.Max && n >= s.Min {
		return nil
	}
	if s.Min > 0 {
		return fail(vc, "The field %s must be a string with a minimum length of %d and a maximum length of %d.", vc.Label, s.Min, s.Max)
	}
	return fail(vc, "The field %s must be a string with a maximum length of %d.", vc.Label, s.Max)
}

// MatchTimeout bounds a single pattern match.
var MatchTimeout = 100 * time.Millisecond

// RegularExpression requires the whole textual value to match a .NET
// compatible pattern. A match that runs out of time counts as no match.
type RegularExpression struct {
	Pattern string
	re      *regexp2.Regexp
}

func NewRegularExpression(pattern string) (*RegularExpression, error) {
	re, err := regexp2.Compile("^(?:"+pattern+")$", regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	re.MatchTimeout = MatchTimeout
	return &RegularExpression{Pattern: pattern, re: re}, nil
}

func (*RegularExpression) Kind() string { return "RegularExpression" }

func (r *RegularExpression) Validate(value any, vc Context) error {
	if isEmpty(value) {
		return nil
	}
	ok, err := r.re.MatchString(types.FormatValue(value))
	if err != nil || !ok {
		return fail(vc, "The field %s must match the regular expression '%s'.", vc.Label, r.Pattern)
	}
	return nil
}

var phonePattern = func() *regexp2.Regexp {
	re := regexp2.MustCompile(
		`^\+?[\d\s\-\.\(\)]*\d[\d\s\-\.\(\)]*(?:\s*(?:x|ext\.?|extension)\s*\d+)?$`,
		regexp2.IgnoreCase)
	re.MatchTimeout = MatchTimeout
	return re
}()

// Phone accepts digits with the usual separators, an optional leading
// plus sign and an optional extension.
type Phone struct{}

func (Phone) Kind() string { return "Phone" }

func (Phone) Validate(value any, vc Context) error {
	if isEmpty(value) {
		return nil
	}
	s, ok := value.(string)
	if ok {
		ok, _ = phonePattern.MatchString(strings.TrimSpace(s))
	}
	if !ok {
		return fail(vc, "The %s field is not a valid phone number.", vc.Label)
	}
	return nil
}

var (
	emailSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return compileFormat("email")
	})
	uriSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return compileFormat("uri")
	})
)

func compileFormat(format string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	url := format + ".json"
	if err := c.AddResource(url, map[string]any{"type": "string", "format": format}); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", format, err)
	}
	return c.Compile(url)
}

func matchesFormat(schema func() (*jsonschema.Schema, error), value any) (bool, error) {
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	sch, err := schema()
	if err != nil {
		return false, err
	}
	return sch.Validate(s) == nil, nil
}

// EmailAddress checks the JSON Schema "email" format.
type EmailAddress struct{}

func (EmailAddress) Kind() string { return "EmailAddress" }

func (EmailAddress) Validate(value any, vc Context) error {
	if isEmpty(value) {
		return nil
	}
	ok, err := matchesFormat(emailSchema, value)
	if err != nil {
		return err
	}
	if !ok {
		return fail(vc, "The %s field is not a valid e-mail address.", vc.Label)
	}
	return nil
}

// URL checks the JSON Schema "uri" format and requires an http, https or
// ftp scheme.
type URL struct{}

func (URL) Kind() string { return "Url" }

func (URL) Validate(value any, vc Context) error {
	if isEmpty(value) {
		return nil
	}
	ok, err := matchesFormat(uriSchema, value)
	if err != nil {
		return err
	}
	if ok {
		lower := strings.ToLower(value.(string))
		ok = strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "ftp://")
	}
	if !ok {
		return fail(vc, "The %s field is not a valid fully-qualified http, https, or ftp URL.", vc.Label)
	}
	return nil
}

func containsValue(values []any, value any) bool {
	text := types.FormatValue(value)
	for _, v := range values {
		if types.FormatValue(v) == text {
			return true
		}
	}
	return false
}

// AllowedValues requires the value to equal one of the listed values.
type AllowedValues []any

func (AllowedValues) Kind() string { return "AllowedValues" }

func (a AllowedValues) Validate(value any, vc Context) error {
	if value == nil || containsValue(a, value) {
		return nil
	}
	return fail(vc, "The %s field does not equal any of the allowed values.", vc.Label)
}

// DeniedValues rejects any of the listed values.
type DeniedValues []any

func (DeniedValues) Kind() string { return "DeniedValues" }

func (d DeniedValues) Validate(value any, vc Context) error {
	if value == nil || !containsValue(d, value) {
		return nil
	}
	return fail(vc, "The %s field equals one of the denied values.", vc.Label)
}
