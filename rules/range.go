package rules

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/tbxark/formfill/temporal"
	"github.com/tbxark/formfill/types"
)

var ErrIncomparable = errors.New("rules: incomparable values")

// Range bounds a value inclusively. Bounds may be numbers, or strings that
// are parsed in the kind of the validated value: "1900-01-01" for dates,
// "08:00" for times of day, "PT1H" for durations.
type Range struct {
	Min any
	Max any
}

func NewRange(minValue, maxValue any) (*Range, error) {
	for _, bound := range []any{minValue, maxValue} {
		switch bound.(type) {
		case int, int64, float64, string, civil.Date, civil.Time, time.Time, time.Duration:
		default:
			return nil, fmt.Errorf("unsupported range bound %T", bound)
		}
	}
	return &Range{Min: minValue, Max: maxValue}, nil
}

func (*Range) Kind() string { return "Range" }

func (r *Range) Validate(value any, vc Context) error {
	if value == nil {
		return nil
	}
	lo, err := compare(value, r.Min)
	if err != nil {
		return err
	}
	hi, err := compare(value, r.Max)
	if err != nil {
		return err
	}
	if lo < 0 || hi > 0 {
		return fail(vc, "The field %s must be between %s and %s.", vc.Label, types.FormatValue(r.Min), types.FormatValue(r.Max))
	}
	return nil
}

var kindSamples = map[types.Kind]any{
	types.KindString:   "",
	types.KindEnum:     "",
	types.KindInteger:  int64(0),
	types.KindFloat:    float64(0),
	types.KindDate:     civil.Date{Year: 2000, Month: time.January, Day: 1},
	types.KindTime:     civil.Time{},
	types.KindDateTime: time.Time{},
	types.KindDuration: time.Duration(0),
}

// CheckKind reports whether both bounds can be compared with values of
// kind.
func (r *Range) CheckKind(kind types.Kind) error {
	sample, ok := kindSamples[kind]
	if !ok {
		return fmt.Errorf("%w: range over %s values", ErrIncomparable, kind)
	}
	for _, bound := range []any{r.Min, r.Max} {
		if _, err := compare(sample, bound); err != nil {
			return fmt.Errorf("bound %s on a %s field: %w", types.FormatValue(bound), kind, err)
		}
	}
	return nil
}

// Bounds returns the numeric bounds when both are numbers.
func (r *Range) Bounds() (float64, float64, bool) {
	lo, ok1 := toFloat(r.Min)
	hi, ok2 := toFloat(r.Max)
	_, isString1 := r.Min.(string)
	_, isString2 := r.Max.(string)
	return lo, hi, ok1 && ok2 && !isString1 && !isString2
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func incomparable(value, bound any) error {
	return fmt.Errorf("%w: %T and %T", ErrIncomparable, value, bound)
}

// compare orders value against bound, converting bound to value's kind.
func compare(value, bound any) (int, error) {
	switch v := value.(type) {
	case int64, int, float64, float32:
		fv, _ := toFloat(v)
		fb, ok := toFloat(bound)
		if !ok {
			return 0, incomparable(value, bound)
		}
		return cmp.Compare(fv, fb), nil
	case civil.Date:
		b, ok := bound.(civil.Date)
		if s, isString := bound.(string); isString {
			d, err := temporal.ParseDate(s)
			b, ok = d, err == nil
		}
		if !ok {
			return 0, incomparable(value, bound)
		}
		return compareDate(v, b), nil
	case civil.Time:
		b, ok := bound.(civil.Time)
		if s, isString := bound.(string); isString {
			t, err := temporal.ParseTime(s)
			b, ok = t, err == nil
		}
		if !ok {
			return 0, incomparable(value, bound)
		}
		return compareTime(v, b), nil
	case time.Duration:
		b, ok := bound.(time.Duration)
		if s, isString := bound.(string); isString {
			d, err := temporal.ParseDuration(s)
			b, ok = d, err == nil
		}
		if !ok {
			return 0, incomparable(value, bound)
		}
		return cmp.Compare(v, b), nil
	case time.Time:
		b, ok := bound.(time.Time)
		if s, isString := bound.(string); isString {
			t, err := temporal.ParseDateTime(s, v.Location())
			b, ok = t, err == nil
		}
		if !ok {
			return 0, incomparable(value, bound)
		}
		return v.Compare(b), nil
	case string:
		b, ok := bound.(string)
		if !ok {
			return 0, incomparable(value, bound)
		}
		return strings.Compare(v, b), nil
	}
	return 0, incomparable(value, bound)
}

func compareDate(a, b civil.Date) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Month, b.Month); c != 0 {
		return c
	}
	return cmp.Compare(a.Day, b.Day)
}

func compareTime(a, b civil.Time) int {
	seconds := func(t civil.Time) int { return t.Hour*3600 + t.Minute*60 + t.Second }
	if c := cmp.Compare(seconds(a), seconds(b)); c != 0 {
		return c
	}
	return cmp.Compare(a.Nanosecond, b.Nanosecond)
}
