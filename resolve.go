package formfill

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/tbxark/formfill/catalog"
	"github.com/tbxark/formfill/match"
	"github.com/tbxark/formfill/recognizers"
	"github.com/tbxark/formfill/rules"
	"github.com/tbxark/formfill/temporal"
	"github.com/tbxark/formfill/types"
)

// resolve turns raw text into a canonical value of the field's kind, or of
// its element kind for collections. cur is the current value used to
// complete partial dates and times; nil when the field is unset. A value
// that cannot be recognized yields a *types.ValidationError.
func (f *Form[T]) resolve(d *catalog.Descriptor, raw string, cur any, vc rules.Context) (any, error) {
	text := strings.TrimSpace(raw)
	switch d.Kind {
	case catalog.KindString:
		return text, nil
	case catalog.KindBoolean:
		return f.resolveBoolean(text, vc)
	case catalog.KindInteger:
		return f.resolveInteger(d, text, vc)
	case catalog.KindFloat:
		return f.resolveFloat(d, text, vc)
	case catalog.KindEnum:
		idx, ok := match.Enum(d.Members, text)
		if !ok {
			return nil, types.NewValidationError(fmt.Sprintf("I didn't understand %s as a valid %s value", text, d.Label), vc.Member)
		}
		return d.Members[idx], nil
	case catalog.KindDate, catalog.KindTime, catalog.KindDateTime, catalog.KindDuration:
		return f.resolveTemporal(d.Kind, text, cur, vc)
	default:
		panic(fmt.Errorf("%w: %q on field %s", ErrUnsupportedKind, d.Kind, d.Name))
	}
}

func unrecognized(text string, vc rules.Context) error {
	return types.NewValidationError(fmt.Sprintf("I didn't understand %s", text), vc.Member)
}

func (f *Form[T]) resolveBoolean(text string, vc rules.Context) (any, error) {
	found := f.opts.booleans.RecognizeBoolean(text, f.opts.locale)
	if len(found) != 1 {
		return nil, unrecognized(text, vc)
	}
	return found[0], nil
}

func (f *Form[T]) resolveInteger(d *catalog.Descriptor, text string, vc rules.Context) (any, error) {
	var found []int64
	for _, n := range f.opts.numbers.RecognizeNumber(text, f.opts.locale) {
		v, ok := integerValue(n)
		if !ok {
			continue
		}
		if !slices.Contains(found, v) {
			found = append(found, v)
		}
	}
	if len(found) != 1 || !d.Fits(found[0]) {
		return nil, unrecognized(text, vc)
	}
	return found[0], nil
}

func integerValue(n recognizers.Number) (int64, bool) {
	switch n.Subtype {
	case recognizers.SubtypeInteger:
		v, err := strconv.ParseInt(n.Value, 10, 64)
		return v, err == nil
	case recognizers.SubtypeDecimal:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil || v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

func (f *Form[T]) resolveFloat(d *catalog.Descriptor, text string, vc rules.Context) (any, error) {
	var found []float64
	for _, n := range f.opts.numbers.RecognizeNumber(text, f.opts.locale) {
		switch n.Subtype {
		case recognizers.SubtypeInteger, recognizers.SubtypeDecimal, recognizers.SubtypeFraction, recognizers.SubtypePower:
		default:
			continue
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		v = catalog.RoundFloat(v, d.Bits)
		if d.Bits == 32 && math.Abs(v) > math.MaxFloat32 {
			continue
		}
		if !slices.Contains(found, v) {
			found = append(found, v)
		}
	}
	if len(found) != 1 {
		return nil, unrecognized(text, vc)
	}
	return found[0], nil
}

// resolveTemporal tries the fixed literal layouts of the kind first and
// falls back to the date-time recognizer, whose possibly partial result is
// merged over cur.
func (f *Form[T]) resolveTemporal(kind catalog.Kind, text string, cur any, vc rules.Context) (any, error) {
	if v, ok := f.parseTemporal(kind, text); ok {
		return v, nil
	}
	t, ok := f.recognizeTimex(text)
	if !ok || !relevant(kind, t) {
		return nil, unrecognized(text, vc)
	}
	v, err := f.mergeTimex(kind, t, cur)
	if err != nil {
		f.logger.Debug("Failed to merge temporal value", "text", text, "timex", t.String(), "error", err)
		return nil, unrecognized(text, vc)
	}
	return v, nil
}

func (f *Form[T]) parseTemporal(kind catalog.Kind, text string) (any, bool) {
	var (
		v   any
		err error
	)
	switch kind {
	case catalog.KindDate:
		v, err = temporal.ParseDate(text)
	case catalog.KindTime:
		v, err = temporal.ParseTime(text)
	case catalog.KindDateTime:
		v, err = temporal.ParseDateTime(text, f.opts.location)
	case catalog.KindDuration:
		v, err = temporal.ParseDuration(text)
	default:
		return nil, false
	}
	return v, err == nil
}

// recognizeTimex returns the expression of the first interpretation the
// recognizer offers. A bare ordinal such as "fifth" is read as a day of
// the month.
func (f *Form[T]) recognizeTimex(text string) (temporal.Timex, bool) {
	now := f.opts.clock.Now()
	if f.opts.location != nil {
		now = now.In(f.opts.location)
	}
	found := f.opts.dates.RecognizeDateTime(text, f.opts.locale, now)
	if len(found) == 0 {
		if ord, ok := f.opts.numbers.(recognizers.OrdinalRecognizer); ok && len(ord.RecognizeOrdinal(text, f.opts.locale)) == 1 {
			found = f.opts.dates.RecognizeDateTime("on the "+text, f.opts.locale, now)
		}
	}
	for _, res := range found {
		for _, v := range res.Values {
			if v.Timex == "" {
				continue
			}
			t, err := temporal.ParseTimex(v.Timex)
			if err == nil {
				return t, true
			}
		}
	}
	return temporal.Timex{}, false
}

func relevant(kind catalog.Kind, t temporal.Timex) bool {
	switch kind {
	case catalog.KindDate:
		return t.HasDate()
	case catalog.KindTime:
		return t.HasTime()
	case catalog.KindDateTime:
		return t.HasDate() || t.HasTime()
	case catalog.KindDuration:
		return t.IsDuration() || (t.HasTime() && !t.HasDate())
	}
	return false
}

func (f *Form[T]) mergeTimex(kind catalog.Kind, t temporal.Timex, cur any) (any, error) {
	switch kind {
	case catalog.KindDate:
		var base *civil.Date
		if c, ok := cur.(civil.Date); ok {
			base = &c
		}
		return temporal.MergeDate(t, base)
	case catalog.KindTime:
		var base *civil.Time
		if c, ok := cur.(civil.Time); ok {
			base = &c
		}
		return temporal.MergeTime(t, base)
	case catalog.KindDateTime:
		var base *time.Time
		if c, ok := cur.(time.Time); ok {
			base = &c
		}
		return temporal.MergeDateTime(t, base, f.opts.location)
	case catalog.KindDuration:
		var base *time.Duration
		if c, ok := cur.(time.Duration); ok {
			base = &c
		}
		return temporal.MergeDuration(t, base)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
}
