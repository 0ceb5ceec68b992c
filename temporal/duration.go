package temporal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Calendar designators in ISO 8601 durations have no fixed length; these
// are the approximations used when converting them to a time.Duration.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

// ParseDuration accepts an ISO 8601 duration ("P1DT4H"), the clock notation
// "[-][d.]hh:mm[:ss[.fffffff]]" ("1.04:00:00") or a Go duration ("90m").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty duration", ErrUnrecognized)
	}
	if d, err := parseISODuration(s); err == nil {
		return d, nil
	}
	if d, err := parseClockDuration(s); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("%w: duration %q", ErrUnrecognized, s)
}

func parseISODuration(s string) (time.Duration, error) {
	s = strings.ToUpper(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, ErrUnrecognized
	}
	s = s[1:]

	var total float64
	inTime := false
	seen := false
	for len(s) > 0 {
		if s[0] == 'T' {
			// a time designator must be followed by a component
			if inTime || len(s) == 1 {
				return 0, ErrUnrecognized
			}
			inTime = true
			s = s[1:]
			continue
		}
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == ',') {
			i++
		}
		if i == 0 || i == len(s) {
			return 0, ErrUnrecognized
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(s[:i], ",", "."), 64)
		if err != nil {
			return 0, ErrUnrecognized
		}
		unit, err := isoUnit(s[i], inTime)
		if err != nil {
			return 0, err
		}
		total += n * float64(unit)
		seen = true
		s = s[i+1:]
	}
	if !seen || total > math.MaxInt64 {
		return 0, ErrUnrecognized
	}
	d := time.Duration(math.Round(total))
	if neg {
		d = -d
	}
	return d, nil
}

func isoUnit(designator byte, inTime bool) (time.Duration, error) {
	if inTime {
		switch designator {
		case 'H':
			return time.Hour, nil
		case 'M':
			return time.Minute, nil
		case 'S':
			return time.Second, nil
		}
		return 0, ErrUnrecognized
	}
	switch designator {
	case 'Y':
		return Year, nil
	case 'M':
		return Month, nil
	case 'W':
		return Week, nil
	case 'D':
		return Day, nil
	}
	return 0, ErrUnrecognized
}

func parseClockDuration(s string) (time.Duration, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return 0, ErrUnrecognized
	}
	var days int64
	head := s[:colon]
	if dot := strings.IndexByte(head, '.'); dot >= 0 {
		n, err := strconv.ParseInt(head[:dot], 10, 64)
		if err != nil || n < 0 {
			return 0, ErrUnrecognized
		}
		days = n
		s = s[dot+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrUnrecognized
	}
	limits := []int64{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	d := time.Duration(days) * Day
	for i, part := range parts {
		var frac string
		if i == 2 {
			if dot := strings.IndexByte(part, '.'); dot >= 0 {
				part, frac = part[:dot], part[dot+1:]
			}
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n < 0 || n > limits[i] {
			return 0, ErrUnrecognized
		}
		d += time.Duration(n) * units[i]
		if frac != "" {
			if len(frac) > 7 {
				return 0, ErrUnrecognized
			}
			f, err := strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
			if err != nil {
				return 0, ErrUnrecognized
			}
			d += time.Duration(f)
		}
	}
	if neg {
		d = -d
	}
	return d, nil
}

// FormatDuration renders d as an ISO 8601 duration using day, hour,
// minute and second designators.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')
	days := d / Day
	d -= days * Day
	if days > 0 {
		b.WriteString(strconv.FormatInt(int64(days), 10))
		b.WriteByte('D')
	}
	if d == 0 {
		return b.String()
	}
	b.WriteByte('T')
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	if hours > 0 {
		b.WriteString(strconv.FormatInt(int64(hours), 10))
		b.WriteByte('H')
	}
	if minutes > 0 {
		b.WriteString(strconv.FormatInt(int64(minutes), 10))
		b.WriteByte('M')
	}
	if d > 0 {
		b.WriteString(strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
		b.WriteByte('S')
	}
	return b.String()
}
