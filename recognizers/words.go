package recognizers

import (
	"sort"
	"strings"
)

var units = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
}

var teens = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scales = map[string]float64{
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
	"trillion": 1e12,
}

var ordinalUnits = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14, "fifteenth": 15,
	"sixteenth": 16, "seventeenth": 17, "eighteenth": 18, "nineteenth": 19,
}

var ordinalTens = map[string]int{
	"twentieth": 20, "thirtieth": 30, "fortieth": 40, "fiftieth": 50,
	"sixtieth": 60, "seventieth": 70, "eightieth": 80, "ninetieth": 90,
}

var months = map[string]int{
	"january": 1, "jan": 1, "february": 2, "feb": 2, "march": 3, "mar": 3,
	"april": 4, "apr": 4, "may": 5, "june": 6, "jun": 6, "july": 7, "jul": 7,
	"august": 8, "aug": 8, "september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10, "november": 11, "nov": 11, "december": 12, "dec": 12,
}

var weekdays = map[string]int{
	"sunday": 0, "sun": 0, "monday": 1, "mon": 1, "tuesday": 2, "tues": 2, "tue": 2,
	"wednesday": 3, "wed": 3, "thursday": 4, "thurs": 4, "thu": 4,
	"friday": 5, "fri": 5, "saturday": 6, "sat": 6,
}

func isNumberWord(tok string) bool {
	if _, ok := units[tok]; ok {
		return true
	}
	if _, ok := teens[tok]; ok {
		return true
	}
	if _, ok := tens[tok]; ok {
		return true
	}
	if _, ok := scales[tok]; ok {
		return true
	}
	return tok == "hundred" || tok == "dozen" || tok == "half"
}

// alternation returns the keys of the maps as a regular expression
// alternation, longest first so that "january" wins over "jan".
func alternation[V any](maps ...map[string]V) string {
	var keys []string
	for _, m := range maps {
		for k := range m {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return strings.Join(keys, "|")
}

// splitTokens lower-cases text and splits it into words. Hyphenated words
// are split ("forty-two"), numerals keep their sign, separators and
// decimal point, and surrounding punctuation is dropped.
func splitTokens(text string) []string {
	var out []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.TrimLeft(field, "($€£\"'")
		field = strings.TrimRight(field, ".,;:!?)\"'")
		if field == "" {
			continue
		}
		if strings.HasPrefix(field, "-") || strings.HasPrefix(field, "+") || (field[0] >= '0' && field[0] <= '9') {
			out = append(out, field)
			continue
		}
		for _, part := range strings.Split(field, "-") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
