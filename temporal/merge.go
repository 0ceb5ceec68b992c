package temporal

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Minimum values used as the merge base when a field has never been set.
var (
	MinDate = civil.Date{Year: 1, Month: time.January, Day: 1}
	MinTime = civil.Time{}
)

func pick(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

// MergeDate fills the unset date components of t from cur, or from MinDate
// when cur is nil.
func MergeDate(t Timex, cur *civil.Date) (civil.Date, error) {
	base := MinDate
	if cur != nil {
		base = *cur
	}
	d := civil.Date{
		Year:  pick(t.Year, base.Year),
		Month: time.Month(pick(t.Month, int(base.Month))),
		Day:   pick(t.Day, base.Day),
	}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: date %s", ErrOutOfRange, t)
	}
	return d, nil
}

// MergeTime fills the unset time-of-day components of t from cur, or from
// midnight when cur is nil.
func MergeTime(t Timex, cur *civil.Time) (civil.Time, error) {
	base := MinTime
	if cur != nil {
		base = *cur
	}
	tm := civil.Time{
		Hour:   pick(t.Hour, base.Hour),
		Minute: pick(t.Minute, base.Minute),
		Second: pick(t.Second, base.Second),
	}
	if !tm.IsValid() {
		return civil.Time{}, fmt.Errorf("%w: time %s", ErrOutOfRange, t)
	}
	return tm, nil
}

// MergeDateTime merges both the date and the time-of-day components of t
// over cur. The result keeps cur's location; without cur it starts from
// 0001-01-01T00:00:00 in loc.
func MergeDateTime(t Timex, cur *time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	base := time.Date(1, time.January, 1, 0, 0, 0, 0, loc)
	if cur != nil {
		base = *cur
	}
	baseDate, baseTime := civil.DateOf(base), civil.TimeOf(base)
	d, err := MergeDate(t, &baseDate)
	if err != nil {
		return time.Time{}, err
	}
	tm, err := MergeTime(t, &baseTime)
	if err != nil {
		return time.Time{}, err
	}
	if t.Second == nil && t.Minute == nil && t.Hour == nil {
		tm.Nanosecond = baseTime.Nanosecond
	}
	return civil.DateTime{Date: d, Time: tm}.In(base.Location()), nil
}

// MergeDuration resolves t against cur. A duration expression is complete
// on its own since ISO 8601 omits zero designators; a time-of-day
// expression replaces the matching components of cur and keeps its days.
func MergeDuration(t Timex, cur *time.Duration) (time.Duration, error) {
	if t.Duration != nil {
		return *t.Duration, nil
	}
	var base time.Duration
	if cur != nil {
		base = *cur
	}
	if base < 0 {
		return 0, fmt.Errorf("%w: negative duration %s", ErrOutOfRange, base)
	}
	days := base / Day
	rest := base - days*Day
	hours := rest / time.Hour
	rest -= hours * time.Hour
	minutes := rest / time.Minute
	rest -= minutes * time.Minute
	seconds := rest / time.Second

	h := pick(t.Hour, int(hours))
	m := pick(t.Minute, int(minutes))
	s := pick(t.Second, int(seconds))
	if h > 23 || m > 59 || s > 59 {
		return 0, fmt.Errorf("%w: duration %s", ErrOutOfRange, t)
	}
	return days*Day + time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second, nil
}
