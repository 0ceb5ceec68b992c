// Package match resolves free text to one member of an enumeration.
package match

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Tokenize splits an identifier or a phrase into lower-cased words.
// CamelCase boundaries and any run of non-alphanumeric characters separate
// words:
//   - "HotDogs" -> ["hot", "dogs"]
//   - "XMLParser" -> ["xml", "parser"]
//   - "guinea-pig's" -> ["guinea", "pig", "s"]
func Tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && startsWord(runes, i) {
			flush()
		}
		current.WriteRune(r)
	}
	flush()
	return tokens
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// end of an acronym: "XMLParser" splits before 'P'
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// Singular returns the singular form of an English word.
func Singular(word string) string {
	return inflection.Singular(word)
}

// Normalize returns the space-joined tokens of s.
func Normalize(s string) string {
	return strings.Join(Tokenize(s), " ")
}

// Humanize turns an identifier into a label: "PhoneNumber" becomes
// "Phone number".
func Humanize(name string) string {
	tokens := Tokenize(name)
	if len(tokens) == 0 {
		return name
	}
	runes := []rune(tokens[0])
	runes[0] = unicode.ToUpper(runes[0])
	tokens[0] = string(runes)
	return strings.Join(tokens, " ")
}

func singularTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = Singular(token)
	}
	return out
}
