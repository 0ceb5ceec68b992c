package recognizers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/tbxark/formfill/temporal"
)

var (
	countWords   = `\d+|` + alternation(units, teens, tens) + `|an?`
	hourWords    = alternation(units, map[string]int{"ten": 10, "eleven": 11, "twelve": 12})
	monthWords   = alternation(months)
	weekdayWords = alternation(weekdays)
	ordinalWords = `(?:(?:twenty|thirty)[\s-]+)?(?:` + alternation(ordinalUnits, ordinalTens) + `)`
	dayNumeral   = `\d{1,2}(?:st|nd|rd|th)?`
	partOfDay    = `(?:\s+(?:in\s+the\s+)?(?<pod>morning|afternoon|evening|night))?`
	meridiem     = `(?<ap>a\.?m\.?|p\.?m\.?)(?![a-z])`
)

type dateRule struct {
	re      *regexp2.Regexp
	resolve func(m *regexp2.Match, sc *scan) (temporal.Timex, bool)
}

func rule(pattern string, resolve func(m *regexp2.Match, sc *scan) (temporal.Timex, bool)) dateRule {
	return dateRule{re: regexp2.MustCompile(pattern, regexp2.None), resolve: resolve}
}

var dateRules = []dateRule{
	rule(`(?<![\d-])(?<y>\d{4})-(?<m>\d{1,2})-(?<d>\d{1,2})(?![\d-])`, resolveNumericDate),
	rule(`(?<![\d/])(?<m>\d{1,2})/(?<d>\d{1,2})(?:/(?<y>\d{4}|\d{2}))?(?![\d/])`, resolveNumericDate),
	rule(`\bin\s+(?<n>`+countWords+`)\s+(?<u>minute|hour|day|week|month|year)s?\b`, resolveOffset),
	rule(`\b(?<n>`+countWords+`)\s+(?<u>minute|hour|day|week|month|year)s?\s+(?<dir>ago|from\s+now|later|hence)\b`, resolveOffset),
	rule(`\b(?:the\s+)?(?<w>day\s+after\s+tomorrow|day\s+before\s+yesterday|today|tonight|tomorrow|yesterday|now)\b`, resolveNamedDay),
	rule(`\b(?<r>next|last|this)\s+(?<u>week|month|year)\b`, resolvePeriod),
	rule(`\b(?:(?<r>next|last|this|coming)\s+)?(?<wd>`+weekdayWords+`)\b`, resolveWeekday),
	rule(`\b(?<mon>`+monthWords+`)\.?\s+(?:the\s+)?(?<d>`+dayNumeral+`|`+ordinalWords+`)(?!\d|\s*(?:[ap]\.?m\b|:))(?:,?\s+(?<y>\d{4}))?\b`, resolveCalendarDate),
	rule(`\b(?:the\s+)?(?<d>`+dayNumeral+`|`+ordinalWords+`)\s+(?:of\s+)?(?<mon>`+monthWords+`)(?:,?\s+(?<y>\d{4}))?\b`, resolveCalendarDate),
	rule(`\b(?<mon>january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+(?<y>\d{4}))?\b`, resolveCalendarDate),
	rule(`\b(?:on\s+)?the\s+(?<d>`+dayNumeral+`|`+ordinalWords+`)\b`, resolveCalendarDate),
	rule(`(?<![\d.])(?<d>\d{1,2}(?:st|nd|rd|th))\b`, resolveCalendarDate),
}

var timeRules = []dateRule{
	rule(`\b(?<w>noon|midday|midnight)\b`, resolveNamedTime),
	rule(`(?<![\w:])(?<h>\d{1,2}|`+hourWords+`)(?::(?<mi>\d{2}))?(?::(?<s>\d{2}))?\s*`+meridiem, resolveClock),
	rule(`(?<![\d:/-])(?<h>\d{1,2}):(?<mi>\d{2})(?::(?<s>\d{2}))?(?![\d:])`+partOfDay, resolveClock),
	rule(`\b(?<h>\d{1,2}|`+hourWords+`)\s+o'?\s?clock`+partOfDay, resolveClock),
	rule(`\bat\s+(?<h>\d{1,2}|`+hourWords+`)(?![\d:/])`+partOfDay+`\b`, resolveClock),
	rule(`\b(?<h>\d{1,2}|`+hourWords+`)\s+in\s+the\s+(?<pod>morning|afternoon|evening|night)\b`, resolveClock),
}

var durationRule = regexp2.MustCompile(
	`\b(?<n>\d+(?:\.\d+)?|`+alternation(units, teens, tens)+`|half\s+an?|an?)\s+(?<u>seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|months?|years?)\b(?<half>\s+and\s+a\s+half)?`,
	regexp2.None)

// scan is the text being recognized. Matched spans are blanked so that
// later rules do not see them again.
type scan struct {
	runes   []rune
	ref     time.Time
	texts   []string
	evening bool
}

func (sc *scan) find(re *regexp2.Regexp) *regexp2.Match {
	m, err := re.FindStringMatch(string(sc.runes))
	if err != nil {
		return nil
	}
	return m
}

func (sc *scan) consume(m *regexp2.Match) {
	for i := m.Index; i < m.Index+m.Length && i < len(sc.runes); i++ {
		sc.runes[i] = ' '
	}
	sc.texts = append(sc.texts, strings.TrimSpace(m.String()))
}

// apply runs the first rule that matches and resolves.
func (sc *scan) apply(rules []dateRule) (temporal.Timex, bool) {
	for _, r := range rules {
		for m := sc.find(r.re); m != nil; m = nextMatch(r.re, m) {
			if t, ok := r.resolve(m, sc); ok {
				sc.consume(m)
				return t, true
			}
		}
	}
	return temporal.Timex{}, false
}

func nextMatch(re *regexp2.Regexp, m *regexp2.Match) *regexp2.Match {
	next, err := re.FindNextMatch(m)
	if err != nil {
		return nil
	}
	return next
}

// RecognizeDateTime finds one date, time, date-time or duration mention in
// text. Relative expressions resolve against ref.
func (English) RecognizeDateTime(text, locale string, ref time.Time) []DateTimeResolution {
	sc := &scan{runes: []rune(" " + strings.ToLower(text) + " "), ref: ref}

	date, hasDate := sc.apply(dateRules)
	clock, hasTime := sc.apply(timeRules)
	if !hasDate && !hasTime {
		d, ok := sc.duration()
		if !ok {
			return nil
		}
		t := temporal.Timex{Duration: &d}
		return []DateTimeResolution{{
			Text: strings.Join(sc.texts, " "),
			Values: []DateTimeValue{{
				Type:  TypeDuration,
				Value: strconv.FormatInt(int64(d/time.Second), 10),
				Timex: t.String(),
			}},
		}}
	}

	t := date
	if hasTime {
		// An explicit time wins over the one carried by "now".
		t.Hour, t.Minute, t.Second = clock.Hour, clock.Minute, clock.Second
	}
	kind, value := render(t, ref)
	return []DateTimeResolution{{
		Text:   strings.Join(sc.texts, " "),
		Values: []DateTimeValue{{Type: kind, Value: value, Timex: t.String()}},
	}}
}

// render resolves the missing components of t from ref.
func render(t temporal.Timex, ref time.Time) (string, string) {
	pick := func(v *int, fallback int) int {
		if v != nil {
			return *v
		}
		return fallback
	}
	date := fmt.Sprintf("%04d-%02d-%02d", pick(t.Year, ref.Year()), pick(t.Month, int(ref.Month())), pick(t.Day, ref.Day()))
	clock := fmt.Sprintf("%02d:%02d:%02d", pick(t.Hour, 0), pick(t.Minute, 0), pick(t.Second, 0))
	switch {
	case t.HasDate() && t.HasTime():
		return TypeDateTime, date + " " + clock
	case t.HasTime():
		return TypeTime, clock
	default:
		return TypeDate, date
	}
}

func group(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return strings.TrimSpace(g.String())
}

func fullDate(d time.Time) temporal.Timex {
	return temporal.Timex{
		Year:  temporal.Int(d.Year()),
		Month: temporal.Int(int(d.Month())),
		Day:   temporal.Int(d.Day()),
	}
}

func fullDateTime(d time.Time) temporal.Timex {
	t := fullDate(d)
	t.Hour, t.Minute, t.Second = temporal.Int(d.Hour()), temporal.Int(d.Minute()), temporal.Int(d.Second())
	return t
}

func validDate(y *int, m, d int) bool {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return false
	}
	if y == nil {
		return true
	}
	t := time.Date(*y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d
}

func resolveNumericDate(m *regexp2.Match, _ *scan) (temporal.Timex, bool) {
	month, _ := strconv.Atoi(group(m, "m"))
	day, _ := strconv.Atoi(group(m, "d"))
	var year *int
	if y := group(m, "y"); y != "" {
		n, _ := strconv.Atoi(y)
		if len(y) == 2 {
			n += 2000
		}
		year = &n
	}
	if !validDate(year, month, day) {
		return temporal.Timex{}, false
	}
	return temporal.Timex{Year: year, Month: temporal.Int(month), Day: temporal.Int(day)}, true
}

func count(s string) (float64, bool) {
	s = strings.Join(strings.Fields(s), " ")
	switch s {
	case "a", "an":
		return 1, true
	case "half a", "half an":
		return 0.5, true
	}
	if v, ok := units[s]; ok {
		return float64(v), true
	}
	if v, ok := teens[s]; ok {
		return float64(v), true
	}
	if v, ok := tens[s]; ok {
		return float64(v), true
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func resolveOffset(m *regexp2.Match, sc *scan) (temporal.Timex, bool) {
	n, ok := count(group(m, "n"))
	if !ok {
		return temporal.Timex{}, false
	}
	k := int(n)
	if group(m, "dir") == "ago" {
		k = -k
	}
	switch group(m, "u") {
	case "minute":
		return fullDateTime(sc.ref.Add(time.Duration(k) * time.Minute)), true
	case "hour":
		return fullDateTime(sc.ref.Add(time.Duration(k) * time.Hour)), true
	case "day":
		return fullDate(sc.ref.AddDate(0, 0, k)), true
	case "week":
		return fullDate(sc.ref.AddDate(0, 0, 7*k)), true
	case "month":
		return fullDate(sc.ref.AddDate(0, k, 0)), true
	case "year":
		return fullDate(sc.ref.AddDate(k, 0, 0)), true
	}
	return temporal.Timex{}, false
}

func resolveNamedDay(m *regexp2.Match, sc *scan) (temporal.Timex, bool) {
	switch strings.Join(strings.Fields(group(m, "w")), " ") {
	case "now":
		return fullDateTime(sc.ref), true
	case "today":
		return fullDate(sc.ref), true
	case "tonight":
		sc.evening = true
		return fullDate(sc.ref), true
	case "tomorrow":
		return fullDate(sc.ref.AddDate(0, 0, 1)), true
	case "yesterday":
		return fullDate(sc.ref.AddDate(0, 0, -1)), true
	case "day after tomorrow":
		return fullDate(sc.ref.AddDate(0, 0, 2)), true
	case "day before yesterday":
		return fullDate(sc.ref.AddDate(0, 0, -2)), true
	}
	return temporal.Timex{}, false
}

func resolvePeriod(m *regexp2.Match, sc *scan) (temporal.Timex, bool) {
	k := 0
	switch group(m, "r") {
	case "next":
		k = 1
	case "last":
		k = -1
	}
	switch group(m, "u") {
	case "week":
		return fullDate(sc.ref.AddDate(0, 0, 7*k)), true
	case "month":
		d := time.Date(sc.ref.Year(), sc.ref.Month()+time.Month(k), 1, 0, 0, 0, 0, time.UTC)
		return temporal.Timex{Year: temporal.Int(d.Year()), Month: temporal.Int(int(d.Month()))}, true
	case "year":
		return temporal.Timex{Year: temporal.Int(sc.ref.Year() + k)}, true
	}
	return temporal.Timex{}, false
}

// resolveWeekday picks the named weekday on or after ref; "next" skips
// today and "last" looks back.
func resolveWeekday(m *regexp2.Match, sc *scan) (temporal.Timex, bool) {
	wd, ok := weekdays[group(m, "wd")]
	if !ok {
		return temporal.Timex{}, false
	}
	delta := (wd - int(sc.ref.Weekday()) + 7) % 7
	switch group(m, "r") {
	case "next":
		if delta == 0 {
			delta = 7
		}
	case "last":
		delta -= 7
	}
	return fullDate(sc.ref.AddDate(0, 0, delta)), true
}

func dayOfMonth(s string) (int, bool) {
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		n, err := strconv.Atoi(strings.TrimRight(s, "stndrh"))
		return n, err == nil
	}
	total := 0
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' }) {
		switch {
		case tens[part] > 0:
			total += tens[part]
		case ordinalTens[part] > 0:
			total += ordinalTens[part]
		case ordinalUnits[part] > 0:
			total += ordinalUnits[part]
		default:
			return 0, false
		}
	}
	return total, total > 0
}

func resolveCalendarDate(m *regexp2.Match, _ *scan) (temporal.Timex, bool) {
	var t temporal.Timex
	if y := group(m, "y"); y != "" {
		n, _ := strconv.Atoi(y)
		t.Year = &n
	}
	month := 1
	if mon := group(m, "mon"); mon != "" {
		month = months[mon]
		t.Month = temporal.Int(month)
	}
	day := 1
	if d := group(m, "d"); d != "" {
		n, ok := dayOfMonth(d)
		if !ok {
			return temporal.Timex{}, false
		}
		day = n
		t.Day = temporal.Int(n)
	}
	if t.Month == nil && t.Day == nil {
		return temporal.Timex{}, false
	}
	if t.Month != nil && t.Day != nil && !validDate(t.Year, month, day) {
		return temporal.Timex{}, false
	}
	if t.Month == nil && (day < 1 || day > 31) {
		return temporal.Timex{}, false
	}
	return t, true
}

func resolveNamedTime(m *regexp2.Match, _ *scan) (temporal.Timex, bool) {
	hour := 12
	if group(m, "w") == "midnight" {
		hour = 0
	}
	return clockTimex(hour, 0, 0), true
}

func hourOf(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if n, ok := units[s]; ok {
		return n, true
	}
	n, ok := teens[s]
	return n, ok && n <= 12
}

func resolveClock(m *regexp2.Match, sc *scan) (temporal.Timex, bool) {
	hour, ok := hourOf(group(m, "h"))
	if !ok {
		return temporal.Timex{}, false
	}
	minute, second := 0, 0
	if s := group(m, "mi"); s != "" {
		minute, _ = strconv.Atoi(s)
	}
	if s := group(m, "s"); s != "" {
		second, _ = strconv.Atoi(s)
	}
	ap := strings.ReplaceAll(group(m, "ap"), ".", "")
	pod := group(m, "pod")
	switch {
	case ap != "":
		if hour < 1 || hour > 12 {
			return temporal.Timex{}, false
		}
		hour %= 12
		if ap == "pm" {
			hour += 12
		}
	case pod == "morning":
		if hour == 12 {
			hour = 0
		}
	case pod != "" || sc.evening:
		if hour < 12 {
			hour += 12
		}
	}
	if hour > 23 || minute > 59 || second > 59 {
		return temporal.Timex{}, false
	}
	return clockTimex(hour, minute, second), true
}

func clockTimex(h, m, s int) temporal.Timex {
	return temporal.Timex{Hour: temporal.Int(h), Minute: temporal.Int(m), Second: temporal.Int(s)}
}

var durationUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': temporal.Day,
	'w': temporal.Week,
	'y': temporal.Year,
}

// duration sums every "<count> <unit>" mention: "1 hour 30 minutes",
// "an hour and a half".
func (sc *scan) duration() (time.Duration, bool) {
	var total time.Duration
	found := false
	for m := sc.find(durationRule); m != nil; m = sc.find(durationRule) {
		n, ok := count(group(m, "n"))
		if !ok {
			sc.consume(m)
			continue
		}
		if group(m, "half") != "" {
			n += 0.5
		}
		unitName := group(m, "u")
		unit := durationUnits[unitName[0]]
		if strings.HasPrefix(unitName, "mo") {
			unit = temporal.Month
		} else if strings.HasPrefix(unitName, "mi") {
			unit = time.Minute
		}
		total += time.Duration(n * float64(unit))
		found = true
		sc.consume(m)
	}
	return total, found
}
