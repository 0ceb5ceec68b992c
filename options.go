package formfill

import (
	"log/slog"
	"time"

	"github.com/tbxark/formfill/recognizers"
)

// Clock supplies the reference instant for relative date-time expressions
// such as "tomorrow".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the system time.
func SystemClock() Clock {
	return systemClock{}
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// FixedClock always returns t. Useful for tests.
func FixedClock(t time.Time) Clock {
	return fixedClock(t)
}

type formOptions struct {
	locale   string
	location *time.Location
	clock    Clock
	logger   *slog.Logger
	numbers  recognizers.NumberRecognizer
	booleans recognizers.BooleanRecognizer
	dates    recognizers.DateTimeRecognizer
}

type Option func(*formOptions)

func defaultOptions() formOptions {
	english := recognizers.NewEnglish()
	return formOptions{
		locale:   "en-us",
		location: time.UTC,
		clock:    SystemClock(),
		numbers:  english,
		booleans: english,
		dates:    english,
	}
}

// WithLocale sets the locale passed to the recognizers.
func WithLocale(locale string) Option {
	return func(o *formOptions) {
		o.locale = locale
	}
}

// WithLocation sets the time zone of date-times that carry no offset and of
// the reference instant for relative expressions. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *formOptions) {
		o.location = loc
	}
}

func WithClock(clock Clock) Option {
	return func(o *formOptions) {
		o.clock = clock
	}
}

// WithLogger sets the logger verbs report to. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *formOptions) {
		o.logger = logger
	}
}

func WithNumberRecognizer(r recognizers.NumberRecognizer) Option {
	return func(o *formOptions) {
		o.numbers = r
	}
}

func WithBooleanRecognizer(r recognizers.BooleanRecognizer) Option {
	return func(o *formOptions) {
		o.booleans = r
	}
}

func WithDateTimeRecognizer(r recognizers.DateTimeRecognizer) Option {
	return func(o *formOptions) {
		o.dates = r
	}
}
