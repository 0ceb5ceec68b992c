package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timex is a possibly partial temporal expression. A nil component was not
// stated by the speaker and is filled in by a merge.
//
// The textual form follows the TIMEX3 conventions: "2015-05-07",
// "XXXX-05-07", "XXXX-XX-05", "T15", "T15:30", "2015-05-07T15:30:00" and
// ISO 8601 durations such as "P1DT4H".
type Timex struct {
	Year   *int
	Month  *int
	Day    *int
	Hour   *int
	Minute *int
	Second *int

	Duration *time.Duration
}

func (t Timex) HasDate() bool {
	return t.Year != nil || t.Month != nil || t.Day != nil
}

func (t Timex) HasTime() bool {
	return t.Hour != nil || t.Minute != nil || t.Second != nil
}

func (t Timex) IsDuration() bool {
	return t.Duration != nil
}

func (t Timex) String() string {
	if t.Duration != nil {
		return FormatDuration(*t.Duration)
	}
	var b strings.Builder
	if t.HasDate() {
		b.WriteString(component(t.Year, 4))
		b.WriteByte('-')
		b.WriteString(component(t.Month, 2))
		b.WriteByte('-')
		b.WriteString(component(t.Day, 2))
	}
	if t.Hour != nil {
		b.WriteByte('T')
		b.WriteString(component(t.Hour, 2))
		if t.Minute != nil {
			b.WriteByte(':')
			b.WriteString(component(t.Minute, 2))
			if t.Second != nil {
				b.WriteByte(':')
				b.WriteString(component(t.Second, 2))
			}
		}
	}
	return b.String()
}

func component(v *int, width int) string {
	if v == nil {
		return strings.Repeat("X", width)
	}
	return fmt.Sprintf("%0*d", width, *v)
}

// ParseTimex parses the textual form produced by date-time recognizers.
func ParseTimex(s string) (Timex, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timex{}, fmt.Errorf("%w: empty timex", ErrUnrecognized)
	}
	if s[0] == 'P' || strings.HasPrefix(s, "-P") {
		d, err := parseISODuration(s)
		if err != nil {
			return Timex{}, fmt.Errorf("%w: timex %q", ErrUnrecognized, s)
		}
		return Timex{Duration: &d}, nil
	}

	datePart, timePart, hasTime := strings.Cut(s, "T")
	var t Timex
	if datePart != "" {
		parts := strings.Split(datePart, "-")
		if len(parts) != 3 {
			return Timex{}, fmt.Errorf("%w: timex %q", ErrUnrecognized, s)
		}
		fields := []**int{&t.Year, &t.Month, &t.Day}
		for i, part := range parts {
			v, err := timexComponent(part)
			if err != nil {
				return Timex{}, fmt.Errorf("%w: timex %q", ErrUnrecognized, s)
			}
			*fields[i] = v
		}
	}
	if hasTime {
		parts := strings.Split(timePart, ":")
		if len(parts) == 0 || len(parts) > 3 {
			return Timex{}, fmt.Errorf("%w: timex %q", ErrUnrecognized, s)
		}
		fields := []**int{&t.Hour, &t.Minute, &t.Second}
		for i, part := range parts {
			v, err := timexComponent(part)
			if err != nil {
				return Timex{}, fmt.Errorf("%w: timex %q", ErrUnrecognized, s)
			}
			*fields[i] = v
		}
	}
	if !t.HasDate() && !t.HasTime() {
		return Timex{}, fmt.Errorf("%w: timex %q", ErrUnrecognized, s)
	}
	return t, nil
}

func timexComponent(s string) (*int, error) {
	if s == "" {
		return nil, ErrUnrecognized
	}
	if strings.Trim(s, "X") == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, ErrUnrecognized
	}
	return &n, nil
}

// Int returns a pointer to n, for building a Timex by hand.
func Int(n int) *int {
	return &n
}
