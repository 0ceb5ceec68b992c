package rules

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var ErrUnknownRule = errors.New("rules: unknown rule kind")

// Constructor builds a rule from the arguments of a spec. Integers arrive
// as int, decimals as float64, true/false as bool and everything else as
// string.
type Constructor func(args ...any) (Rule, error)

// Registry maps rule kinds to constructors. Kinds are case-insensitive and
// an optional "Attribute" suffix is ignored.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
	names map[string]string
}

// NewRegistry creates a registry holding the built-in rule kinds.
func NewRegistry() *Registry {
	r := &Registry{
		ctors: make(map[string]Constructor),
		names: make(map[string]string),
	}
	registerBuiltins(r)
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when none is supplied.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a kind to the default registry.
func Register(kind string, ctor Constructor) error {
	return defaultRegistry.Register(kind, ctor)
}

func registryKey(kind string) string {
	kind = strings.TrimSpace(kind)
	if len(kind) > len("Attribute") && strings.EqualFold(kind[len(kind)-len("Attribute"):], "Attribute") {
		kind = kind[:len(kind)-len("Attribute")]
	}
	return strings.ToLower(kind)
}

// Register adds a constructor. Duplicate kinds return an error.
func (r *Registry) Register(kind string, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("rules: constructor for %q is required", kind)
	}
	key := registryKey(kind)
	if key == "" {
		return fmt.Errorf("rules: rule kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[key]; exists {
		return fmt.Errorf("rules: rule %q already registered", kind)
	}
	r.ctors[key] = ctor
	r.names[key] = strings.TrimSpace(kind)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind string, ctor Constructor) {
	if err := r.Register(kind, ctor); err != nil {
		panic(err)
	}
}

// Get retrieves the constructor for kind.
func (r *Registry) Get(kind string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[registryKey(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, kind)
	}
	return ctor, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, err := r.Get(kind)
	return err == nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.names))
	for _, name := range r.names {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

// Build parses spec and instantiates the rule it names.
func (r *Registry) Build(spec string) (Rule, error) {
	kind, args, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	ctor, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	rule, err := ctor(args...)
	if err != nil {
		return nil, fmt.Errorf("rules: build %q: %w", spec, err)
	}
	return rule, nil
}

// BuildAll builds every spec in order.
func (r *Registry) BuildAll(specs ...string) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		rule, err := r.Build(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

// Parse splits a spec such as `Range(0, 100)` or `RegularExpression("^\d+$")`
// into its kind and typed arguments. A spec without parentheses has no
// arguments.
func Parse(spec string) (string, []any, error) {
	spec = strings.TrimSpace(spec)
	kind, argText := spec, ""
	if open := strings.IndexByte(spec, '('); open >= 0 {
		if !strings.HasSuffix(spec, ")") {
			return "", nil, fmt.Errorf("rules: unbalanced parentheses in %q", spec)
		}
		kind, argText = spec[:open], spec[open+1:len(spec)-1]
	}
	kind = strings.TrimSpace(kind)
	if registryKey(kind) == "" {
		return "", nil, fmt.Errorf("rules: missing rule kind in %q", spec)
	}

	raw, err := splitArgs(argText)
	if err != nil {
		return "", nil, fmt.Errorf("rules: %q: %w", spec, err)
	}
	args := make([]any, 0, len(raw))
	for _, s := range raw {
		args = append(args, parseArg(s))
	}
	return kind, args, nil
}

func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		out     []string
		current strings.Builder
		quote   rune
		escaped bool
		depth   int
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced parentheses")
			}
		case r == ',' && depth == 0:
			out = append(out, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if quote != 0 {
		return nil, errors.New("unterminated string")
	}
	if depth != 0 {
		return nil, errors.New("unbalanced parentheses")
	}
	return append(out, current.String()), nil
}

func parseArg(s string) any {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if s[0] == '"' && s[len(s)-1] == '"' {
			if unquoted, err := strconv.Unquote(s); err == nil {
				return unquoted
			}
			return s[1 : len(s)-1]
		}
		if s[0] == '\'' && s[len(s)-1] == '\'' {
			return s[1 : len(s)-1]
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
