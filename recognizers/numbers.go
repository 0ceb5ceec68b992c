package recognizers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	integerLiteral  = regexp.MustCompile(`^[-+]?(?:\d{1,3}(?:,\d{3})+|\d+)$`)
	decimalLiteral  = regexp.MustCompile(`^[-+]?(?:\d{1,3}(?:,\d{3})+|\d+)?\.\d+$`)
	exponentLiteral = regexp.MustCompile(`^([-+]?\d+(?:\.\d+)?)(?:e|\*10\^)([-+]?\d+)$`)
	powerLiteral    = regexp.MustCompile(`^([-+]?\d+(?:\.\d+)?)\^([-+]?\d+)$`)
	fractionLiteral = regexp.MustCompile(`^([-+]?\d+)/(\d+)$`)
	ordinalLiteral  = regexp.MustCompile(`^(\d+)(?:st|nd|rd|th)$`)
)

// RecognizeNumber returns every cardinal number in text, in order. Numerals
// ("1,234", "-3.5", "1/2", "1e3") and English number words ("forty two",
// "a dozen", "two and a half") are recognized.
func (English) RecognizeNumber(text, locale string) []Number {
	tokens := splitTokens(text)
	var out []Number
	for i := 0; i < len(tokens); {
		if n, ok := parseLiteral(tokens[i]); ok {
			i++
			if n.Subtype == SubtypeInteger && i < len(tokens) {
				if scale, ok := scaleOf(tokens[i]); ok {
					v, _ := strconv.ParseFloat(n.Value, 64)
					n = number(n.Text+" "+tokens[i], v*scale, SubtypeInteger)
					i++
				}
			}
			out = append(out, n)
			continue
		}
		if n, consumed, ok := readWords(tokens, i); ok {
			out = append(out, n)
			i += consumed
			continue
		}
		i++
	}
	return out
}

// RecognizeOrdinal returns every ordinal in text: "5th", "third",
// "twenty-first".
func (English) RecognizeOrdinal(text, locale string) []Number {
	tokens := splitTokens(text)
	var out []Number
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if m := ordinalLiteral.FindStringSubmatch(tok); m != nil {
			out = append(out, Number{Text: tok, Subtype: SubtypeOrdinal, Value: m[1]})
			continue
		}
		if v, ok := ordinalTens[tok]; ok {
			out = append(out, Number{Text: tok, Subtype: SubtypeOrdinal, Value: strconv.Itoa(v)})
			continue
		}
		if t, ok := tens[tok]; ok && i+1 < len(tokens) {
			if u, ok := ordinalUnits[tokens[i+1]]; ok && u < 10 {
				out = append(out, Number{Text: tok + " " + tokens[i+1], Subtype: SubtypeOrdinal, Value: strconv.Itoa(t + u)})
				i++
				continue
			}
		}
		if v, ok := ordinalUnits[tok]; ok {
			out = append(out, Number{Text: tok, Subtype: SubtypeOrdinal, Value: strconv.Itoa(v)})
		}
	}
	return out
}

func scaleOf(tok string) (float64, bool) {
	switch tok {
	case "hundred":
		return 100, true
	case "dozen":
		return 12, true
	}
	s, ok := scales[tok]
	return s, ok
}

func number(text string, v float64, subtype string) Number {
	if subtype == SubtypeInteger && v == math.Trunc(v) && math.Abs(v) < 1e18 {
		return Number{Text: text, Subtype: subtype, Value: strconv.FormatInt(int64(v), 10)}
	}
	if subtype == SubtypeInteger {
		subtype = SubtypeDecimal
	}
	return Number{Text: text, Subtype: subtype, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

func parseLiteral(tok string) (Number, bool) {
	switch {
	case integerLiteral.MatchString(tok):
		digits := strings.TrimPrefix(strings.ReplaceAll(tok, ",", ""), "+")
		return Number{Text: tok, Subtype: SubtypeInteger, Value: digits}, true
	case decimalLiteral.MatchString(tok):
		digits := strings.TrimPrefix(strings.ReplaceAll(tok, ",", ""), "+")
		if strings.HasPrefix(digits, ".") {
			digits = "0" + digits
		} else if strings.HasPrefix(digits, "-.") {
			digits = "-0" + digits[1:]
		}
		return Number{Text: tok, Subtype: SubtypeDecimal, Value: digits}, true
	}
	if m := exponentLiteral.FindStringSubmatch(tok); m != nil {
		return power(tok, m[1], m[2], 10)
	}
	if m := powerLiteral.FindStringSubmatch(tok); m != nil {
		base, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Number{}, false
		}
		exp, err := strconv.Atoi(m[2])
		if err != nil {
			return Number{}, false
		}
		return Number{Text: tok, Subtype: SubtypePower, Value: strconv.FormatFloat(math.Pow(base, float64(exp)), 'f', -1, 64)}, true
	}
	if m := fractionLiteral.FindStringSubmatch(tok); m != nil {
		num, err1 := strconv.ParseFloat(m[1], 64)
		den, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return Number{}, false
		}
		return Number{Text: tok, Subtype: SubtypeFraction, Value: strconv.FormatFloat(num/den, 'f', -1, 64)}, true
	}
	return Number{}, false
}

func power(tok, mantissa, exponent string, base float64) (Number, bool) {
	m, err := strconv.ParseFloat(mantissa, 64)
	if err != nil {
		return Number{}, false
	}
	e, err := strconv.Atoi(exponent)
	if err != nil {
		return Number{}, false
	}
	return Number{Text: tok, Subtype: SubtypePower, Value: strconv.FormatFloat(m*math.Pow(base, float64(e)), 'f', -1, 64)}, true
}

type wordClass int

const (
	classNone wordClass = iota
	classUnit
	classTeen
	classTens
	classHundred
	classScale
)

// readWords reads one spelled-out number starting at tokens[i]. Adjacent
// units such as "five six" are separate numbers.
func readWords(tokens []string, i int) (Number, int, bool) {
	start := i
	negative := false
	if (tokens[i] == "minus" || tokens[i] == "negative") && i+1 < len(tokens) && isNumberWord(tokens[i+1]) {
		negative = true
		i++
	}

	var total, current float64
	last := classNone
	seen := false
	subtype := SubtypeInteger
	next := func(j int) string {
		if j < len(tokens) {
			return tokens[j]
		}
		return ""
	}

loop:
	for i < len(tokens) {
		tok := tokens[i]
		switch {
		case units[tok] > 0 || tok == "zero":
			if last == classUnit || last == classTeen {
				break loop
			}
			current += float64(units[tok])
			last = classUnit
		case teens[tok] > 0:
			if last == classUnit || last == classTeen || last == classTens {
				break loop
			}
			current += float64(teens[tok])
			last = classTeen
		case tens[tok] > 0:
			if last == classUnit || last == classTeen || last == classTens {
				break loop
			}
			current += float64(tens[tok])
			last = classTens
		case tok == "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
			last = classHundred
		case tok == "dozen":
			if current == 0 {
				current = 1
			}
			current *= 12
			last = classScale
		case scales[tok] > 0:
			if current == 0 {
				current = 1
			}
			total += current * scales[tok]
			current = 0
			last = classScale
		case tok == "a" || tok == "an":
			n := next(i + 1)
			if n == "hundred" || n == "dozen" || n == "half" || scales[n] > 0 {
				i++
				continue
			}
			break loop
		case tok == "and":
			n := next(i + 1)
			if seen && (isNumberWord(n) || ((n == "a" || n == "an") && next(i+2) == "half")) {
				i++
				continue
			}
			break loop
		case tok == "half":
			current += 0.5
			subtype = SubtypeDecimal
			seen = true
			i++
			break loop
		case tok == "point" && seen:
			digits := ""
			j := i + 1
			for ; j < len(tokens); j++ {
				u, ok := units[tokens[j]]
				if !ok {
					break
				}
				digits += strconv.Itoa(u)
			}
			if digits == "" {
				break loop
			}
			frac, _ := strconv.ParseFloat("0."+digits, 64)
			current += frac
			subtype = SubtypeDecimal
			i = j
			break loop
		default:
			break loop
		}
		seen = true
		i++
	}
	if !seen {
		return Number{}, 0, false
	}
	v := total + current
	if negative {
		v = -v
	}
	return number(strings.Join(tokens[start:i], " "), v, subtype), i - start, true
}
