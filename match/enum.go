package match

import (
	"strings"
)

// Enum picks the member of members that input refers to. An exact match of
// the normalized text wins, with or without singularization. Otherwise each
// member scores one point per pair of equal singular tokens between the
// member and the input; the single highest score above zero wins. A tie at
// the top is ambiguous and reported as no match.
func Enum(members []string, input string) (int, bool) {
	inputTokens := Tokenize(input)
	if len(inputTokens) == 0 {
		return -1, false
	}
	inputSingular := singularTokens(inputTokens)
	plain := strings.Join(inputTokens, " ")
	singular := strings.Join(inputSingular, " ")

	memberTokens := make([][]string, len(members))
	for i, member := range members {
		tokens := Tokenize(member)
		joined := strings.Join(tokens, " ")
		if joined == plain {
			return i, true
		}
		memberTokens[i] = singularTokens(tokens)
		if strings.Join(memberTokens[i], " ") == singular {
			return i, true
		}
	}

	best, bestScore, tied := -1, 0, false
	for i, tokens := range memberTokens {
		score := 0
		for _, mt := range tokens {
			for _, it := range inputSingular {
				if mt == it {
					score++
				}
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = i, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if best < 0 || tied {
		return -1, false
	}
	return best, true
}
