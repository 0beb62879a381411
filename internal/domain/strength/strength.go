// Package strength scores passphrases with a fixed set of character-class,
// pattern, and length criteria. Scores are informational; they never gate
// persistence.
package strength

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinScore and MaxScore bound every value Score can return.
const (
	MinScore = -3
	MaxScore = 8
)

type criterion struct {
	message string
	delta   int
	match   func(string) bool
}

// criteria are evaluated independently; Score sums the deltas of every match.
var criteria = []criterion{
	{"At least one lowercase letter", 1, hasLower},
	{"At least one uppercase letter", 1, hasUpper},
	{"At least one number", 1, hasDigit},
	{"At least one special character", 1, hasSpecial},
	{"No more than 2 repeated characters", -2, hasRepeatedRun},
	{"No sequential numbers", -1, hasSequentialDigits},
	{"No sequential letters", -1, hasSequentialLetters},
	{"At least 8 characters", 1, minLength(8)},
	{"At least 12 characters", 1, minLength(12)},
	{"At least 16 characters", 1, minLength(16)},
	{"At least 20 characters", 1, minLength(20)},
	{"At least 24 characters", 1, minLength(24)},
}

var labels = map[int]string{
	-3: "Dangerously predictable",
	-2: "Immediately change this",
	-1: "Do not consider this",
	0:  "Good start",
	1:  "Unacceptable",
	2:  "Extremely weak",
	3:  "Easily guessable",
	4:  "Should be more varied",
	5:  "Acceptable",
	6:  "Good",
	7:  "Strong",
	8:  "Perfect",
}

var colors = map[int]string{
	-3: "#CC0000",
	-2: "#FF0000",
	-1: "#FF3300",
	0:  "#FF6600",
	1:  "#FF9900",
	2:  "#FFCC00",
	3:  "#FFFF00",
	4:  "#CCFF00",
	5:  "#99FF00",
	6:  "#66FF00",
	7:  "#33FF00",
	8:  "#00FF00",
}

// Score returns the strength of passphrase, starting at -1.
func Score(passphrase string) int {
	score := -1
	for _, c := range criteria {
		if c.match(passphrase) {
			score += c.delta
		}
	}
	return score
}

// Evaluate reports pass/fail for every criterion, keyed by its message.
// Penalty criteria report true when the pattern is present.
func Evaluate(passphrase string) map[string]bool {
	out := make(map[string]bool, len(criteria))
	for _, c := range criteria {
		out[c.message] = c.match(passphrase)
	}
	return out
}

// IsPenalty reports whether the criterion named message lowers the score
// when it matches.
func IsPenalty(message string) bool {
	for _, c := range criteria {
		if c.message == message {
			return c.delta < 0
		}
	}
	return false
}

// Label returns the qualitative description of score. It panics for a score
// Score cannot produce.
func Label(score int) string {
	l, ok := labels[score]
	if !ok {
		panic(fmt.Sprintf("strength: score %d out of range [%d, %d]", score, MinScore, MaxScore))
	}
	return l
}

// Color returns the hex color associated with score. It panics for a score
// Score cannot produce.
func Color(score int) string {
	c, ok := colors[score]
	if !ok {
		panic(fmt.Sprintf("strength: score %d out of range [%d, %d]", score, MinScore, MaxScore))
	}
	return c
}

// Rating buckets a score the way reports group passphrases.
type Rating string

const (
	RatingWeak   Rating = "weak"
	RatingMedium Rating = "medium"
	RatingStrong Rating = "strong"
)

// RatingOf returns weak below 4, medium for 4 and 5, strong above 5.
func RatingOf(score int) Rating {
	switch {
	case score < 4:
		return RatingWeak
	case score <= 5:
		return RatingMedium
	default:
		return RatingStrong
	}
}

func hasLower(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' })
}

func hasUpper(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' })
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, isDigit)
}

func hasSpecial(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !isDigit(r)
	})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func minLength(n int) func(string) bool {
	return func(s string) bool { return utf8.RuneCountInString(s) >= n }
}

// hasRepeatedRun matches the same character three or more times in a row.
func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if run > 0 && r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= 3 {
			return true
		}
	}
	return false
}

func hasSequentialDigits(s string) bool {
	return hasStep(s, isDigit)
}

// hasSequentialLetters matches three consecutive letters stepping by one in
// either direction, or any three-key run of a keyboard row. Only lowercase
// runs count.
func hasSequentialLetters(s string) bool {
	if hasStep(s, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return true
	}
	for _, row := range keyboardRows {
		if containsTriple(s, row) || containsTriple(s, reverse(row)) {
			return true
		}
	}
	return false
}

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// hasStep reports three consecutive runes of the class whose code points
// ascend or descend by exactly one.
func hasStep(s string, class func(rune) bool) bool {
	rs := []rune(s)
	for i := 0; i+2 < len(rs); i++ {
		a, b, c := rs[i], rs[i+1], rs[i+2]
		if !class(a) || !class(b) || !class(c) {
			continue
		}
		if (b-a == 1 && c-b == 1) || (a-b == 1 && b-c == 1) {
			return true
		}
	}
	return false
}

func containsTriple(s, row string) bool {
	for i := 0; i+3 <= len(row); i++ {
		if strings.Contains(s, row[i:i+3]) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
