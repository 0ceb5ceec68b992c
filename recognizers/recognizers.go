// Package recognizers declares the natural-language recognizers consulted
// when a raw value is not a plain literal, and provides deterministic
// English implementations of them.
package recognizers

import "time"

// Number subtypes.
const (
	SubtypeInteger  = "integer"
	SubtypeDecimal  = "decimal"
	SubtypeFraction = "fraction"
	SubtypePower    = "power"
	SubtypeOrdinal  = "ordinal"
)

// Date-time value types.
const (
	TypeDate     = "date"
	TypeTime     = "time"
	TypeDateTime = "datetime"
	TypeDuration = "duration"
)

// Number is one number found in a text. Value is the decimal rendering of
// the number.
type Number struct {
	Text    string
	Subtype string
	Value   string
}

type NumberRecognizer interface {
	RecognizeNumber(text, locale string) []Number
}

// OrdinalRecognizer finds ordinals such as "5th" or "third".
type OrdinalRecognizer interface {
	RecognizeOrdinal(text, locale string) []Number
}

type BooleanRecognizer interface {
	RecognizeBoolean(text, locale string) []bool
}

// DateTimeValue is one interpretation of a date-time mention. Timex holds
// the possibly partial expression; Value holds a fully resolved rendering.
type DateTimeValue struct {
	Type  string
	Value string
	Timex string
}

type DateTimeResolution struct {
	Text   string
	Values []DateTimeValue
}

type DateTimeRecognizer interface {
	RecognizeDateTime(text, locale string, ref time.Time) []DateTimeResolution
}

// English recognizes numbers, booleans and dates in English text. Locales
// other than English are answered the same way.
type English struct{}

var (
	_ NumberRecognizer   = English{}
	_ OrdinalRecognizer  = English{}
	_ BooleanRecognizer  = English{}
	_ DateTimeRecognizer = English{}
)

func NewEnglish() English {
	return English{}
}
