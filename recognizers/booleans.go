package recognizers

import "strings"

var booleanWords = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yea": true, "yep": true, "yup": true,
	"true": true, "sure": true, "ok": true, "okay": true, "affirmative": true,
	"correct": true, "right": true, "absolutely": true, "definitely": true,
	"certainly": true, "indeed": true,

	"no": false, "n": false, "nope": false, "nah": false, "false": false,
	"negative": false, "never": false, "not": false, "incorrect": false, "wrong": false,
}

// RecognizeBoolean returns one result per yes or no word in text.
func (English) RecognizeBoolean(text, locale string) []bool {
	lower := strings.ToLower(text)
	var out []bool
	if strings.Contains(lower, "of course") {
		out = append(out, true)
		lower = strings.ReplaceAll(lower, "of course", " ")
	}
	for _, tok := range splitTokens(lower) {
		if v, ok := booleanWords[tok]; ok {
			out = append(out, v)
		}
	}
	return out
}
