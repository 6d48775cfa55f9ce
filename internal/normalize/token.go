package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// numberWords maps English number words to digits.
//
//nolint:gochecknoglobals // Static lookup table
var numberWords = map[string]string{
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10", "eleven": "11", "twelve": "12", "thirteen": "13",
	"fourteen": "14", "fifteen": "15", "sixteen": "16", "seventeen": "17",
	"eighteen": "18", "nineteen": "19", "twenty": "20",
}

var (
	// s2, pt3, vol12, ch45, arc2
	shorthandRe = regexp.MustCompile(`^(?:s|season|pt|part|vol|volume|ch|chapter|arc)\.?(\d+)$`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
	// RE2 has no lookahead; emptiness is checked separately.
	romanRe = regexp.MustCompile(`^m{0,4}(cm|cd|d?c{0,3})(xc|xl|l?x{0,3})(ix|iv|v?i{0,3})$`)
)

//nolint:gochecknoglobals // Static lookup table
var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000}

// NormalizeToken maps a single word to its canonical token so that
// "Season 2", "S2", "two" and "II" all produce "2".
func NormalizeToken(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return ""
	}

	if m := shorthandRe.FindStringSubmatch(t); m != nil {
		return stripLeadingZeros(m[1])
	}

	if n, ok := numberWords[t]; ok {
		return n
	}

	if digitsRe.MatchString(t) {
		return stripLeadingZeros(t)
	}

	if v, ok := RomanToInt(t); ok {
		return strconv.Itoa(v)
	}

	return t
}

// RomanToInt converts a valid Roman numeral (case-insensitive) to its value.
func RomanToInt(s string) (int, bool) {
	s = strings.ToLower(s)
	if s == "" || !romanRe.MatchString(s) {
		return 0, false
	}

	total := 0
	for i := 0; i < len(s); i++ {
		v := romanValues[s[i]]
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total, true
}

func stripLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
