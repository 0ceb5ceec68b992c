package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/bytedance/sonic"
)

var (
	ErrUnsupportedType = errors.New("catalog: unsupported field type")
	ErrValueType       = errors.New("catalog: value does not match field kind")
	ErrOutOfRange      = errors.New("catalog: value out of range")
	ErrZeroNotEncoded  = errors.New("catalog: zero value does not survive JSON encoding")
)

// codec converts between a Go field type and its canonical value.
type codec[V any] struct {
	kind     Kind
	bits     int
	unsigned bool
	to       func(V) any
	from     func(any) (V, error)
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func mismatch[V any](kind Kind, x any) (V, error) {
	var zero V
	return zero, fmt.Errorf("%w: %T for %s", ErrValueType, x, kind)
}

func identity[V any](kind Kind) codec[V] {
	return codec[V]{
		kind: kind,
		to:   func(v V) any { return v },
		from: func(x any) (V, error) {
			v, ok := x.(V)
			if !ok {
				return mismatch[V](kind, x)
			}
			return v, nil
		},
	}
}

func integerCodec[V any, I integer](bits int, unsigned bool) codec[V] {
	return codec[V]{
		kind:     KindInteger,
		bits:     bits,
		unsigned: unsigned,
		to:       func(v V) any { return int64(any(v).(I)) },
		from: func(x any) (V, error) {
			n, ok := x.(int64)
			if !ok {
				return mismatch[V](KindInteger, x)
			}
			if !fits(n, bits, unsigned) {
				var zero V
				return zero, fmt.Errorf("%w: %d", ErrOutOfRange, n)
			}
			return any(I(n)).(V), nil
		},
	}
}

func floatCodec[V any, F ~float32 | ~float64](bits int) codec[V] {
	return codec[V]{
		kind: KindFloat,
		bits: bits,
		to:   func(v V) any { return RoundFloat(float64(any(v).(F)), bits) },
		from: func(x any) (V, error) {
			f, ok := x.(float64)
			if !ok {
				return mismatch[V](KindFloat, x)
			}
			return any(F(f)).(V), nil
		},
	}
}

// zeroRoundTrips decodes the JSON encoding of the zero V back into a V.
// A zero civil.Date encodes as "0000-00-00", which does not parse.
func zeroRoundTrips[V any]() error {
	var zero V
	raw, err := sonic.Marshal(zero)
	if err != nil {
		return err
	}
	var back V
	return sonic.Unmarshal(raw, &back)
}

// RoundFloat returns the shortest float64 that denotes the same value as f
// held in a float of the given width. A float32 holding 0.1 reads back as
// 0.1, not 0.10000000149011612.
func RoundFloat(f float64, bits int) float64 {
	if bits != 32 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
	if err != nil {
		return f
	}
	return r
}

func fits(n int64, bits int, unsigned bool) bool {
	if unsigned && n < 0 {
		return false
	}
	if bits >= 64 {
		return true
	}
	if unsigned {
		return uint64(n) < uint64(1)<<bits
	}
	limit := int64(1) << (bits - 1)
	return n >= -limit && n < limit
}

// codecFor picks the codec of a non-enum field type. The kind is decided
// here, once per field.
func codecFor[V any]() (codec[V], error) {
	var zero V
	switch any(zero).(type) {
	case string:
		return identity[V](KindString), nil
	case bool:
		return identity[V](KindBoolean), nil
	case int:
		return integerCodec[V, int](strconv.IntSize, false), nil
	case int8:
		return integerCodec[V, int8](8, false), nil
	case int16:
		return integerCodec[V, int16](16, false), nil
	case int32:
		return integerCodec[V, int32](32, false), nil
	case int64:
		return integerCodec[V, int64](64, false), nil
	case uint:
		return integerCodec[V, uint](strconv.IntSize, true), nil
	case uint8:
		return integerCodec[V, uint8](8, true), nil
	case uint16:
		return integerCodec[V, uint16](16, true), nil
	case uint32:
		return integerCodec[V, uint32](32, true), nil
	case uint64:
		// canonical integers are int64
		return integerCodec[V, uint64](63, true), nil
	case float32:
		return floatCodec[V, float32](32), nil
	case float64:
		return floatCodec[V, float64](64), nil
	case civil.Date:
		return identity[V](KindDate), nil
	case civil.Time:
		return identity[V](KindTime), nil
	case time.Time:
		return identity[V](KindDateTime), nil
	case time.Duration:
		return identity[V](KindDuration), nil
	case civil.DateTime:
		return codec[V]{
			kind: KindDateTime,
			to:   func(v V) any { return any(v).(civil.DateTime).In(time.UTC) },
			from: func(x any) (V, error) {
				t, ok := x.(time.Time)
				if !ok {
					return mismatch[V](KindDateTime, x)
				}
				return any(civil.DateTimeOf(t)).(V), nil
			},
		}, nil
	}
	return codec[V]{}, fmt.Errorf("%w: %T", ErrUnsupportedType, zero)
}

// EnumMember names one value of an enumeration.
type EnumMember[V comparable] struct {
	Name  string
	Value V
}

// StringMembers lists the members of a string-based enumeration, each
// named by its own value.
func StringMembers[V ~string](values ...V) []EnumMember[V] {
	out := make([]EnumMember[V], len(values))
	for i, v := range values {
		out[i] = EnumMember[V]{Name: string(v), Value: v}
	}
	return out
}

func enumCodec[V comparable](members []EnumMember[V]) codec[V] {
	return codec[V]{
		kind: KindEnum,
		to: func(v V) any {
			for _, m := range members {
				if m.Value == v {
					return m.Name
				}
			}
			return fmt.Sprint(v)
		},
		from: func(x any) (V, error) {
			name, ok := x.(string)
			if !ok {
				return mismatch[V](KindEnum, x)
			}
			for _, m := range members {
				if m.Name == name {
					return m.Value, nil
				}
			}
			var zero V
			return zero, fmt.Errorf("%w: %q is not a member", ErrValueType, name)
		},
	}
}
